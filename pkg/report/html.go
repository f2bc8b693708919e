package report

import (
	"html/template"
	"io"

	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

var htmlFuncs = template.FuncMap{"sevClass": sevClass}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Scan Report: {{.Summary.Target}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
.open { color: #0a7d23; font-weight: bold; }
.closed { color: #888; }
.sev-critical { color: #b00020; font-weight: bold; }
.sev-high { color: #d9534f; }
.sev-medium { color: #e0a800; }
.sev-low { color: #5a8f3c; }
.sev-info { color: #555; }
</style>
</head>
<body>
<h1>Scan Report: {{.Summary.Target}}</h1>
<p>
Timestamp: {{.Summary.Timestamp}}<br>
Duration: {{.Summary.ScanDuration}}<br>
Targets: {{.Summary.TotalTargets}} &middot;
Open: {{.Summary.OpenPorts}} &middot;
Closed: {{.Summary.ClosedPorts}}
</p>
{{range .Report.Hosts}}
<h2>{{.Host}}</h2>
<table>
<tr><th>Port</th><th>State</th><th>Service</th><th>Banner</th><th>Vulnerabilities</th></tr>
{{range .Results}}
<tr>
<td>{{.Port}}</td>
<td class="{{if .IsOpen}}open{{else}}closed{{end}}">{{if .IsOpen}}open{{else}}closed{{end}}</td>
<td>{{.Service}}</td>
<td>{{.Banner}}</td>
<td>
{{range .Vulnerabilities}}<span class="sev-{{sevClass .SeverityStr}}">{{.CVE}} ({{.SeverityStr}})</span><br>{{end}}
</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

func sevClass(s string) string {
	switch s {
	case "Critical":
		return "critical"
	case "High":
		return "high"
	case "Medium":
		return "medium"
	case "Low":
		return "low"
	default:
		return "info"
	}
}

type htmlData struct {
	Summary Summary
	Report  *orchestrator.Report
}

func writeHTML(w io.Writer, report *orchestrator.Report, summary Summary) error {
	return htmlTemplate.Execute(w, htmlData{Summary: summary, Report: report})
}
