package report

import (
	"context"
	"fmt"
	"net"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lucchesi-sec/nscan/internal/core"
)

// tickMsg carries everything read off the scan's event channel since the
// last tick: any results collected along the way, the latest progress
// snapshot (nil if none arrived this tick), and whether the channel has
// been fully drained.
type tickMsg struct {
	results  []core.ScanResult
	progress *core.ProgressEvent
	done     bool
}

// progressModel is a trimmed single-host scan progress display: a
// gradient bar plus a spinner, driven by core.Scan's event stream.
type progressModel struct {
	bar      progress.Model
	spin     spinner.Model
	host     string
	finished bool
	results  []core.ScanResult

	events <-chan core.Event
}

func newProgressModel(host string, events <-chan core.Event) progressModel {
	bar := progress.New(progress.WithDefaultGradient())
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return progressModel{
		bar:    bar,
		spin:   spin,
		host:   host,
		events: events,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, listenForEvents(m.events))
}

// listenForEvents drains m.events until a progress tick arrives or the
// channel closes, whichever comes first, and reports what it saw.
func listenForEvents(events <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		var msg tickMsg
		for ev := range events {
			switch ev.Kind {
			case core.EventKindResult:
				msg.results = append(msg.results, *ev.Result)
			case core.EventKindProgress:
				msg.progress = ev.Progress
				return msg
			}
		}
		msg.done = true
		return msg
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.results = append(m.results, msg.results...)

		if msg.done {
			m.finished = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		if msg.progress != nil {
			cmd = m.bar.SetPercent(percent(msg.progress.Completed, msg.progress.Total))
		}
		return m, tea.Batch(cmd, listenForEvents(m.events))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.finished {
		return fmt.Sprintf("scanned %s: %d ports\n", m.host, len(m.results))
	}
	return fmt.Sprintf("%s scanning %s  %s\n", m.spin.View(), m.host, m.bar.View())
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// RunWithProgress drives a single host's scan through an interactive
// bubbletea progress bar + spinner and returns the collected results once
// the scan finishes.
func RunWithProgress(ctx context.Context, host net.IP, cfg core.ScanConfig) ([]core.ScanResult, error) {
	events := core.Scan(ctx, host, cfg)
	model := newProgressModel(host.String(), events)

	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	fm := final.(progressModel)
	return fm.results, nil
}
