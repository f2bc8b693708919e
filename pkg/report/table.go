package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

var severityColors = map[core.Severity]*color.Color{
	core.SeverityCritical: color.New(color.FgRed, color.Bold),
	core.SeverityHigh:     color.New(color.FgRed),
	core.SeverityMedium:   color.New(color.FgYellow),
	core.SeverityLow:      color.New(color.FgGreen),
	core.SeverityInfo:     color.New(color.FgWhite),
}

// WriteTable is the plain-terminal fallback for WriteConsole: it renders the
// same summary header, but lists every port (open and closed, with banners
// and vulnerabilities under open ones) through fatih/color rather than
// lipgloss, for
// callers that disabled lipgloss's terminal detection (--no-color, or a
// non-TTY destination piped to a file or log collector). fatih/color
// degrades to plain text on its own once color.NoColor is set, so callers
// don't need two separate code paths.
func WriteTable(w io.Writer, report *orchestrator.Report, noColor bool) {
	prevNoColor := color.NoColor
	color.NoColor = noColor
	defer func() { color.NoColor = prevNoColor }()

	bold := color.New(color.Bold)
	open := color.New(color.FgGreen, color.Bold)
	closed := color.New(color.FgHiBlack)

	bold.Fprintf(w, "Scan report: %s\n", report.Summary.Target)
	fmt.Fprintf(w, "%d targets, %d open, %d closed, took %s\n\n",
		report.Summary.TotalTargets, report.Summary.OpenPorts, report.Summary.ClosedPorts, report.Summary.ScanDuration)

	for _, h := range report.Hosts {
		for _, r := range h.Results {
			c := closed
			state := "closed"
			if r.IsOpen {
				c = open
				state = "open"
			}
			c.Fprintf(w, "%s:%d/%s %s\n", h.Host, r.Port, state, r.Service)
			if !r.IsOpen {
				continue
			}
			if r.Banner != "" {
				fmt.Fprintf(w, "    %s\n", r.Banner)
			}
			for _, v := range r.Vulnerabilities {
				vc, ok := severityColors[core.ParseSeverity(v.SeverityStr)]
				if !ok {
					vc = severityColors[core.SeverityInfo]
				}
				vc.Fprintf(w, "    %s [%s] %s\n", v.CVE, v.SeverityStr, v.Description)
			}
		}
	}
}
