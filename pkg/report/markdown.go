package report

import (
	"fmt"
	"io"

	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

func writeMarkdown(w io.Writer, report *orchestrator.Report, summary Summary) error {
	if _, err := fmt.Fprintf(w, "# Scan Report: %s\n\n", summary.Target); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- Timestamp: %s\n- Duration: %s\n- Targets: %d\n- Open ports: %d\n- Closed ports: %d\n\n",
		summary.Timestamp, summary.ScanDuration, summary.TotalTargets, summary.OpenPorts, summary.ClosedPorts); err != nil {
		return err
	}

	for _, h := range report.Hosts {
		if _, err := fmt.Fprintf(w, "## %s\n\n", h.Host); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "| Port | State | Service | Banner | Vulnerabilities |"); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "|---|---|---|---|---|"); err != nil {
			return err
		}

		for _, r := range h.Results {
			state := "closed"
			if r.IsOpen {
				state = "open"
			}

			vulns := "-"
			if len(r.Vulnerabilities) > 0 {
				vulns = ""
				for i, v := range r.Vulnerabilities {
					if i > 0 {
						vulns += ", "
					}
					vulns += fmt.Sprintf("%s (%s)", v.CVE, v.SeverityStr)
				}
			}

			if _, err := fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
				r.Port, state, r.Service, escapeMarkdownCell(r.Banner), vulns); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

// escapeMarkdownCell neutralizes pipe characters that would otherwise
// break a Markdown table row built from an arbitrary banner string.
func escapeMarkdownCell(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '|' {
			out = append(out, '\\', '|')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
