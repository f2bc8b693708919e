package report

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lucchesi-sec/nscan/internal/core"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{5, 10, 0.5},
		{10, 10, 1},
	}
	for _, tt := range tests {
		if got := percent(tt.done, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestProgressModelAccumulatesResultsAcrossTicks(t *testing.T) {
	m := newProgressModel("127.0.0.1", nil)

	updated, cmd := m.Update(tickMsg{
		results:  []core.ScanResult{{Port: 22, IsOpen: true}},
		progress: &core.ProgressEvent{Completed: 1, Total: 2},
	})
	m = updated.(progressModel)
	if cmd == nil {
		t.Fatal("expected a follow-up command while scan is still in progress")
	}
	if m.finished {
		t.Error("model should not be finished yet")
	}
	if len(m.results) != 1 {
		t.Fatalf("got %d results, want 1", len(m.results))
	}

	updated, cmd = m.Update(tickMsg{
		results: []core.ScanResult{{Port: 80, IsOpen: false}},
		done:    true,
	})
	m = updated.(progressModel)
	if !m.finished {
		t.Error("model should be finished after a done tick")
	}
	if len(m.results) != 2 {
		t.Fatalf("got %d results, want 2", len(m.results))
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit to be issued once the scan is done")
	}
}

func TestProgressModelViewReflectsState(t *testing.T) {
	m := newProgressModel("127.0.0.1", nil)
	if got := m.View(); got == "" {
		t.Error("View() should not be empty while scanning")
	}

	m.finished = true
	m.results = []core.ScanResult{{Port: 22}}
	if got := m.View(); got == "" {
		t.Error("View() should not be empty once finished")
	}
}
