package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucchesi-sec/nscan/internal/orchestrator"
	"github.com/lucchesi-sec/nscan/pkg/report"
)

// Server wires Registry to an http.Handler implementing spec.md §6's REST
// surface, a websocket upgrade on the single-scan route, and three plain
// HTML pages.
type Server struct {
	registry *Registry
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// NewServer builds a Server; call ServeHTTP (or use it directly as an
// http.Handler) to serve it, and Run to also launch the eviction loop.
func NewServer(registry *Registry) *Server {
	s := &Server{
		registry: registry,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/scan", s.handleCreateScan)
	s.mux.HandleFunc("GET /api/scans", s.handleListScans)
	s.mux.HandleFunc("GET /api/scan/{id}", s.handleGetScan)
	s.mux.HandleFunc("GET /api/scan/{id}/results", s.handleScanResults)
	s.mux.HandleFunc("POST /api/scan/{id}/stop", s.handleStopScan)
	s.mux.HandleFunc("GET /api/scan/{id}/export", s.handleExportScan)

	s.mux.HandleFunc("GET /{$}", s.handleIndexPage)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboardPage)
	s.mux.HandleFunc("GET /scan/{id}", s.handleScanPage)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves the dashboard on addr until ctx is cancelled, also starting
// the registry's 24-hour scan-eviction loop.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.registry.RunEvictionLoop(ctx, time.Hour)

	srv := &http.Server{Addr: addr, Handler: s}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createScanRequest is the POST /api/scan body: a subset of the knobs
// cmd/commands/scan.go exposes as flags, with ports given as an explicit
// list. Vulnerability checking, presets and report format are not settable
// here.
type createScanRequest struct {
	Target        string `json:"target"`
	Ports         []int  `json:"ports"`
	Concurrency   int    `json:"concurrency"`
	MaxHosts      int    `json:"max_hosts"`
	TimeoutMs     int    `json:"timeout_ms"`
	PingTimeoutMs int    `json:"ping_timeout_ms"`
	PingSweep     bool   `json:"ping_sweep"`
	Banners       bool   `json:"banners"`
	FastMode      bool   `json:"fast_mode"`
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var req createScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}
	if len(req.Ports) == 0 {
		writeError(w, http.StatusBadRequest, "at least one port is required")
		return
	}

	cfg := newRunConfig(req)
	orchestrator.ApplyFastMode(&cfg, 1)
	if err := orchestrator.Validate(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := s.registry.Start(context.Background(), cfg)
	writeJSON(w, http.StatusAccepted, state.snapshot())
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	scans := s.registry.List()
	out := make([]snapshot, 0, len(scans))
	for _, sc := range scans {
		out = append(out, sc.snapshot())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	state, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}

	if websocket.IsWebSocketUpgrade(r) {
		s.serveLiveUpdates(w, r, state)
		return
	}

	writeJSON(w, http.StatusOK, state.snapshot())
}

func (s *Server) serveLiveUpdates(w http.ResponseWriter, r *http.Request, state *ScanState) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if !state.hub.subscribe(conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"status","status":"`+string(state.Status())+`"}`))
		return
	}
	defer state.hub.unsubscribe(conn)

	// The connection is read-only from the client's side; block until it
	// closes (client disconnect or hub.close on scan completion).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleScanResults(w http.ResponseWriter, r *http.Request) {
	state, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	rep := state.Report()
	if rep == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": state.Status(), "hosts": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleStopScan(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Stop(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleExportScan(w http.ResponseWriter, r *http.Request) {
	state, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	rep := state.Report()
	if rep == nil {
		writeError(w, http.StatusConflict, "scan has not completed")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	w.Header().Set("Content-Disposition", `attachment; filename="scan-`+state.ID+`.`+format+`"`)
	if err := report.WriteTo(w, rep, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func newRunConfig(req createScanRequest) orchestrator.RunConfig {
	return orchestrator.RunConfig{
		Target:        req.Target,
		Ports:         req.Ports,
		Concurrency:   req.Concurrency,
		MaxHosts:      req.MaxHosts,
		TimeoutMs:     req.TimeoutMs,
		PingTimeoutMs: req.PingTimeoutMs,
		PingSweep:     req.PingSweep,
		GrabBanners:   req.Banners,
		FastMode:      req.FastMode,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
