// Package orchestrator drives a full run: resolve targets and ports,
// optionally filter by reachability, scan every surviving host
// concurrently under a max_hosts semaphore, and merge the results into a
// single report-ready bundle (C11, spec.md §4.11).
package orchestrator

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/lucchesi-sec/nscan/internal/core"
)

// RunConfig is the orchestrator's input, the CLI/dashboard-facing
// superset of core.ScanConfig (spec.md §6's "input configuration").
type RunConfig struct {
	Target        string
	Ports         []int
	Concurrency   int
	MaxHosts      int
	TimeoutMs     int
	PingTimeoutMs int
	PingSweep     bool
	GrabBanners   bool
	FastMode      bool
	Correlator    core.Correlator

	// Warn receives non-fatal diagnostics from target resolution (CIDR
	// truncation) so the CLI layer can print or log them.
	Warn func(string)

	// OnEvent, if set, is called with every core.Event emitted while
	// scanning each host, in addition to Run's own aggregation — the
	// dashboard collaborator uses this to broadcast live progress over a
	// websocket without Run itself knowing about HTTP.
	OnEvent func(host string, ev core.Event)
}

// HostReport pairs a resolved host with its port results.
type HostReport struct {
	Host    string
	Results []core.ScanResult
}

// Summary mirrors spec.md §6's report-emitter summary map.
type Summary struct {
	Target       string
	TotalTargets int
	TotalPorts   int
	OpenPorts    int
	ClosedPorts  int
	ScanDuration time.Duration
	Timestamp    string
}

// Report is the orchestrator's final output, handed to an external report
// emitter (out of core's scope per spec.md §1).
type Report struct {
	Hosts   []HostReport
	Summary Summary
}

// ApplyFastMode mutates cfg in place per spec.md §6's self-applied fast
// mode: concurrency scales with core count, timeouts shrink, and
// banner/vuln work is disabled. targetCount lets the caller skip the ping
// sweep when there's only a single target, per the same section.
func ApplyFastMode(cfg *RunConfig, targetCount int) {
	if !cfg.FastMode {
		return
	}
	cfg.Concurrency = runtime.NumCPU() * 150
	cfg.TimeoutMs = 95
	cfg.GrabBanners = false
	cfg.Correlator = nil
	if targetCount == 1 {
		cfg.PingSweep = false
	}
}

// Run executes the full pipeline: resolve targets (C1) and ports (C2,
// assumed already expanded into cfg.Ports by the caller), optionally
// filter by reachability (C4), scan each surviving host (C8) under a
// max_hosts-wide semaphore, and merge into a Report.
func Run(ctx context.Context, cfg RunConfig) (*Report, error) {
	start := time.Now()

	hosts, err := core.Resolve(ctx, cfg.Target, core.ResolveOptions{
		Fast: cfg.FastMode,
		Warn: cfg.Warn,
	})
	if err != nil {
		return nil, err
	}

	if cfg.PingSweep {
		pingTimeout := cfg.PingTimeoutMs
		if pingTimeout <= 0 {
			pingTimeout = core.DefaultPingTimeoutMs
		}
		hosts = core.PingSweep(ctx, hosts, pingTimeout, concurrencyOrDefault(cfg.Concurrency))
		if len(hosts) == 0 {
			return &Report{Summary: Summary{
				Target:    cfg.Target,
				Timestamp: start.UTC().Format(time.RFC3339),
			}}, nil
		}
	}

	maxHosts := cfg.MaxHosts
	if maxHosts <= 0 {
		maxHosts = core.DefaultMaxHosts
	}

	sem := make(chan struct{}, maxHosts)
	reports := make([]HostReport, len(hosts))
	var wg sync.WaitGroup

	for i, host := range hosts {
		wg.Add(1)
		go func(i int, host net.IP) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "warning: recovered from panic scanning host %s: %v\n", host, r)
					reports[i] = HostReport{Host: host.String()}
				}
			}()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			events := core.Scan(ctx, host, core.ScanConfig{
				Ports:       cfg.Ports,
				Concurrency: cfg.Concurrency,
				TimeoutMs:   cfg.TimeoutMs,
				GrabBanners: cfg.GrabBanners,
				FastMode:    cfg.FastMode,
				Correlator:  cfg.Correlator,
			})
			results, _ := collectAndNotify(events, cfg.OnEvent, host.String())
			reports[i] = HostReport{Host: host.String(), Results: results}
		}(i, host)
	}

	wg.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Host < reports[j].Host })

	summary := Summary{
		Target:       cfg.Target,
		TotalTargets: len(reports),
		ScanDuration: time.Since(start),
		Timestamp:    start.UTC().Format(time.RFC3339),
	}
	for _, r := range reports {
		summary.TotalPorts += len(r.Results)
		for _, res := range r.Results {
			if res.IsOpen {
				summary.OpenPorts++
			} else {
				summary.ClosedPorts++
			}
		}
	}
	if len(reports) == 1 {
		summary.Target = reports[0].Host
	}

	return &Report{Hosts: reports, Summary: summary}, nil
}

// collectAndNotify is core.CollectResults plus a per-event side channel, so
// a caller like the dashboard collaborator can observe progress/result
// events live without Run exposing its internal per-host channels.
func collectAndNotify(events <-chan core.Event, onEvent func(string, core.Event), host string) ([]core.ScanResult, *core.ProgressEvent) {
	var results []core.ScanResult
	var lastProgress *core.ProgressEvent

	for ev := range events {
		if onEvent != nil {
			onEvent(host, ev)
		}
		switch ev.Kind {
		case core.EventKindResult:
			if ev.Result != nil {
				results = append(results, *ev.Result)
			}
		case core.EventKindProgress:
			if ev.Progress != nil {
				p := *ev.Progress
				lastProgress = &p
			}
		}
	}
	return results, lastProgress
}

func concurrencyOrDefault(n int) int {
	if n <= 0 {
		return core.DefaultConcurrency
	}
	return n
}

// Validate does the minimal sanity check Run needs before committing to a
// scan: a non-empty target and at least one port.
func Validate(cfg RunConfig) error {
	if cfg.Target == "" {
		return fmt.Errorf("no target specified")
	}
	if len(cfg.Ports) == 0 {
		return fmt.Errorf("no ports specified")
	}
	return nil
}
