// Package report implements the report emitter spec.md §6 treats as an
// external collaborator: it turns an orchestrator.Report into one of four
// formats (JSON, CSV, Markdown, HTML) and writes it to a file or, absent
// an output path, to standard output.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/lucchesi-sec/nscan/internal/orchestrator"
	nscanerrors "github.com/lucchesi-sec/nscan/pkg/errors"
)

// Summary is the JSON/template-facing view of orchestrator.Summary, using
// the exact key names spec.md §6 calls out: target, total_ports,
// open_ports, closed_ports, scan_duration, timestamp, total_targets.
type Summary struct {
	Target       string `json:"target"`
	TotalTargets int    `json:"total_targets"`
	TotalPorts   int    `json:"total_ports"`
	OpenPorts    int    `json:"open_ports"`
	ClosedPorts  int    `json:"closed_ports"`
	ScanDuration string `json:"scan_duration"`
	Timestamp    string `json:"timestamp"`
}

func buildSummary(s orchestrator.Summary) Summary {
	return Summary{
		Target:       s.Target,
		TotalTargets: s.TotalTargets,
		TotalPorts:   s.TotalPorts,
		OpenPorts:    s.OpenPorts,
		ClosedPorts:  s.ClosedPorts,
		ScanDuration: s.ScanDuration.String(),
		Timestamp:    s.Timestamp,
	}
}

// Write renders report in format ("json", "markdown", "csv", or "html")
// and writes it to outputPath, or to stdout when outputPath is empty.
func Write(report *orchestrator.Report, format, outputPath string) error {
	var w io.Writer = os.Stdout
	var f *os.File
	if outputPath != "" {
		var err error
		f, err = os.Create(outputPath)
		if err != nil {
			return nscanerrors.OutputWriteError(outputPath, err)
		}
		defer f.Close()
		w = f
	}

	if err := WriteTo(w, report, format); err != nil {
		path := outputPath
		if path == "" {
			path = "stdout"
		}
		return nscanerrors.OutputWriteError(path, err)
	}
	return nil
}

// WriteTo renders report in format directly to w, with no file handling
// and no *UserError wrapping — the dashboard collaborator's HTTP export
// endpoint uses this directly since an HTTP response isn't a CLI exit
// path.
func WriteTo(w io.Writer, report *orchestrator.Report, format string) error {
	summary := buildSummary(report.Summary)

	switch format {
	case "", "json":
		return writeJSON(w, report, summary)
	case "csv":
		return writeCSV(w, report)
	case "markdown":
		return writeMarkdown(w, report, summary)
	case "html":
		return writeHTML(w, report, summary)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
