package dashboard

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lucchesi-sec/nscan/internal/core"
)

// wireEvent is what gets marshaled to every websocket subscriber: a
// status change, or a host-scoped core.Event (ScanResult/ProgressEvent).
type wireEvent struct {
	Type     string              `json:"type"`
	Status   Status              `json:"status,omitempty"`
	Host     string              `json:"host,omitempty"`
	Result   *core.ScanResult    `json:"result,omitempty"`
	Progress *core.ProgressEvent `json:"progress,omitempty"`
}

// hub fans a scan's status transitions and live core.Events out to every
// websocket connection currently watching it. It holds no reference back
// to the ScanState or the Registry — ScanState pushes into it, handlers
// pull connections out of it.
type hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *hub) subscribe(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *hub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *hub) broadcastStatus(status Status) {
	h.broadcast(wireEvent{Type: "status", Status: status})
}

func (h *hub) broadcastEvent(host string, ev core.Event) {
	switch ev.Kind {
	case core.EventKindResult:
		h.broadcast(wireEvent{Type: "result", Host: host, Result: ev.Result})
	case core.EventKindProgress:
		h.broadcast(wireEvent{Type: "progress", Host: host, Progress: ev.Progress})
	}
}

func (h *hub) broadcast(ev wireEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}
}

// close marks the hub closed and drops every connection it was holding;
// called once the driving scan has finished.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
