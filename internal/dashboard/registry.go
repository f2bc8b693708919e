// Package dashboard is the HTTP surface collaborator: an in-memory scan
// registry plus the REST/websocket/HTML endpoints that let a browser start,
// watch, and export scans without going through the CLI (spec.md §6's
// "Dashboard HTTP surface").
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

// Status is a scan's lifecycle state as seen by the registry.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	StatusStopped Status = "stopped"
)

// Runner executes a scan; production code passes orchestrator.Run, tests
// substitute a fake to avoid touching the network.
type Runner func(ctx context.Context, cfg orchestrator.RunConfig) (*orchestrator.Report, error)

// ScanState is one tracked scan: its request, its current status, and its
// report once available. Every field access goes through the accessor
// methods, which take mu — the background goroutine driving the scan and
// any number of HTTP handlers reading it run concurrently.
type ScanState struct {
	ID        string
	Target    string
	CreatedAt time.Time

	mu          sync.RWMutex
	status      Status
	report      *orchestrator.Report
	err         error
	completedAt time.Time

	cancel context.CancelFunc
	hub    *hub
}

func (s *ScanState) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *ScanState) Report() *orchestrator.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

func (s *ScanState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ScanState) CompletedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completedAt
}

func (s *ScanState) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.hub.broadcastStatus(status)
}

func (s *ScanState) finish(report *orchestrator.Report, err error, status Status) {
	s.mu.Lock()
	s.report = report
	s.err = err
	s.status = status
	s.completedAt = time.Now()
	s.mu.Unlock()
	s.hub.broadcastStatus(status)
	s.hub.close()
}

// snapshot is the JSON-serializable view of a ScanState used by the REST
// handlers.
type snapshot struct {
	ID          string     `json:"id"`
	Target      string     `json:"target"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (s *ScanState) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{ID: s.ID, Target: s.Target, Status: s.status, CreatedAt: s.CreatedAt}
	if !s.completedAt.IsZero() {
		snap.CompletedAt = &s.completedAt
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Registry is the concurrent map of scan_id -> (scan_state, task_handle)
// spec.md §6 describes: scans are addressed by UUIDv4, and each holds its
// own single-writer lock rather than the task reaching back into the map.
type Registry struct {
	mu     sync.RWMutex
	scans  map[string]*ScanState
	runner Runner

	maxAge time.Duration
}

// NewRegistry builds an empty registry. maxAge is how long a completed
// scan is kept before Evict removes it; spec.md §6 specifies 24 hours.
func NewRegistry(runner Runner, maxAge time.Duration) *Registry {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Registry{
		scans:  make(map[string]*ScanState),
		runner: runner,
		maxAge: maxAge,
	}
}

// Start launches cfg as a new tracked scan and returns its state
// immediately; the scan itself runs in a background goroutine.
func (r *Registry) Start(parent context.Context, cfg orchestrator.RunConfig) *ScanState {
	ctx, cancel := context.WithCancel(parent)

	state := &ScanState{
		ID:        uuid.New().String(),
		Target:    cfg.Target,
		CreatedAt: time.Now(),
		status:    StatusQueued,
		cancel:    cancel,
		hub:       newHub(),
	}

	r.mu.Lock()
	r.scans[state.ID] = state
	r.mu.Unlock()

	cfg.OnEvent = func(host string, ev core.Event) {
		state.hub.broadcastEvent(host, ev)
	}

	go r.run(ctx, state, cfg)

	return state
}

func (r *Registry) run(ctx context.Context, state *ScanState, cfg orchestrator.RunConfig) {
	state.setStatus(StatusRunning)

	report, err := r.runner(ctx, cfg)
	switch {
	case err != nil && ctx.Err() != nil:
		state.finish(report, err, StatusStopped)
	case err != nil:
		state.finish(nil, err, StatusError)
	default:
		state.finish(report, nil, StatusDone)
	}
}

// Get returns the scan with the given id, if any.
func (r *Registry) Get(id string) (*ScanState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scans[id]
	return s, ok
}

// List returns every tracked scan, most recently created first.
func (r *Registry) List() []*ScanState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ScanState, 0, len(r.scans))
	for _, s := range r.scans {
		out = append(out, s)
	}
	sortByCreatedDesc(out)
	return out
}

func sortByCreatedDesc(scans []*ScanState) {
	for i := 1; i < len(scans); i++ {
		for j := i; j > 0 && scans[j].CreatedAt.After(scans[j-1].CreatedAt); j-- {
			scans[j], scans[j-1] = scans[j-1], scans[j]
		}
	}
}

// Stop cancels a scan's driving context, per spec.md §6's "external stop
// signal": in-flight TCP operations are cancelled via the shared context
// rather than left to their own timeouts.
func (r *Registry) Stop(id string) bool {
	r.mu.RLock()
	s, ok := r.scans[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	s.cancel()
	return true
}

// Evict removes every completed scan older than the registry's maxAge,
// returning how many were removed.
func (r *Registry) Evict(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.scans {
		completed := s.CompletedAt()
		if completed.IsZero() {
			continue
		}
		if now.Sub(completed) > r.maxAge {
			delete(r.scans, id)
			removed++
		}
	}
	return removed
}

// RunEvictionLoop evicts stale scans every interval until ctx is done;
// intended to be launched once as its own goroutine by the server.
func (r *Registry) RunEvictionLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict(time.Now())
		}
	}
}
