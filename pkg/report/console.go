package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

var (
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	severityStyles = map[core.Severity]lipgloss.Style{
		core.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		core.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		core.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		core.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		core.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

// WriteConsole prints a colored human-readable summary of report to w,
// independent of the file-format emitters in json.go/csv.go/markdown.go/
// html.go. The scan command prints it to stderr, after the formatted
// report, whenever no --output path is given and neither --quiet nor
// --no-color is set.
func WriteConsole(w io.Writer, report *orchestrator.Report) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Scan report: %s", report.Summary.Target)))
	fmt.Fprintf(w, "%d targets, %d open, %d closed, took %s\n\n",
		report.Summary.TotalTargets, report.Summary.OpenPorts, report.Summary.ClosedPorts, report.Summary.ScanDuration)

	for _, h := range report.Hosts {
		for _, r := range h.Results {
			if !r.IsOpen {
				continue
			}
			line := fmt.Sprintf("%s:%d %s", h.Host, r.Port, r.Service)
			fmt.Fprintln(w, openStyle.Render(line))
			if r.Banner != "" {
				fmt.Fprintf(w, "    %s\n", r.Banner)
			}
			for _, v := range r.Vulnerabilities {
				style, ok := severityStyles[core.ParseSeverity(v.SeverityStr)]
				if !ok {
					style = severityStyles[core.SeverityInfo]
				}
				fmt.Fprintln(w, "    "+style.Render(fmt.Sprintf("%s [%s] %s", v.CVE, v.SeverityStr, v.Description)))
			}
		}
	}
}
