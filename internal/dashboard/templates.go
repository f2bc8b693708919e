package dashboard

import (
	"html/template"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>nscan</title></head>
<body>
<h1>nscan dashboard</h1>
<p><a href="/dashboard">View scans</a></p>
</body></html>`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html><head><title>nscan - scans</title></head>
<body>
<h1>Scans</h1>
<ul>
{{range .}}
<li><a href="/scan/{{.ID}}">{{.ID}}</a> — {{.Target}} — {{.Status}}</li>
{{else}}
<li>no scans yet</li>
{{end}}
</ul>
</body></html>`))

var scanPageTemplate = template.Must(template.New("scan").Parse(`<!DOCTYPE html>
<html><head><title>nscan - {{.ID}}</title></head>
<body>
<h1>Scan {{.ID}}</h1>
<p>Target: {{.Target}}</p>
<p>Status: <span id="status">{{.Status}}</span></p>
<ul id="events"></ul>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/scan/{{.ID}}");
ws.onmessage = (msg) => {
	const ev = JSON.parse(msg.data);
	if (ev.type === "status") {
		document.getElementById("status").textContent = ev.status;
	}
	const li = document.createElement("li");
	li.textContent = JSON.stringify(ev);
	document.getElementById("events").appendChild(li);
};
</script>
</body></html>`))

func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, nil)
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	scans := s.registry.List()
	snaps := make([]snapshot, 0, len(scans))
	for _, sc := range scans {
		snaps = append(snaps, sc.snapshot())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = dashboardTemplate.Execute(w, snaps)
}

func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	state, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = scanPageTemplate.Execute(w, state.snapshot())
}
