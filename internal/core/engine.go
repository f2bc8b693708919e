package core

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"
)

// Scan runs config against a single resolved host and returns its port
// results sorted ascending by port (C8, spec.md §4.8). Events (individual
// results and periodic progress ticks) are delivered on the returned
// channel, which is closed once the scan completes.
func Scan(ctx context.Context, host net.IP, config ScanConfig) <-chan Event {
	events := make(chan Event, ResultChannelBufferSize)

	go func() {
		defer close(events)

		if config.FastMode {
			runFastBatched(ctx, host, config, events)
			return
		}
		runStandard(ctx, host, config, events)
	}()

	return events
}

func runStandard(ctx context.Context, host net.IP, config ScanConfig, events chan<- Event) {
	timeout := time.Duration(config.TimeoutMs) * time.Millisecond
	sem := make(chan struct{}, concurrencyOf(config))

	reporter := NewProgressReporter(events)
	progressDone := reporter.StartReporting(ctx, len(config.Ports))

	results := make([]ScanResult, 0, len(config.Ports))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, port := range config.Ports {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "warning: recovered from panic scanning %s:%d: %v\n", host, port, r)
					reporter.IncrementCompleted()
				}
			}()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			result := scanPort(ctx, host, port, timeout, config.GrabBanners, false)
			if config.Correlator != nil && result.IsOpen && result.Banner != "" {
				result.Vulnerabilities = config.Correlator.Check(result.Banner)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			reporter.IncrementCompleted()
		}(port)
	}

	wg.Wait()
	<-progressDone

	sort.Slice(results, func(i, j int) bool { return results[i].Port < results[j].Port })
	for _, r := range results {
		select {
		case events <- newResultEvent(r):
		case <-ctx.Done():
			return
		}
	}
}

// runFastBatched chunks ports into FastBatchSize groups and scans each
// batch to completion before starting the next, trading strict
// concurrency for bounded peak goroutine count on very large port lists
// (C8, spec.md §4.8). No banner grabbing or vulnerability correlation
// happens on this path.
func runFastBatched(ctx context.Context, host net.IP, config ScanConfig, events chan<- Event) {
	timeout := time.Duration(config.TimeoutMs) * time.Millisecond
	sem := make(chan struct{}, concurrencyOf(config))

	reporter := NewProgressReporter(events)
	progressDone := reporter.StartReporting(ctx, len(config.Ports))

	var all []ScanResult

	for start := 0; start < len(config.Ports); start += FastBatchSize {
		end := start + FastBatchSize
		if end > len(config.Ports) {
			end = len(config.Ports)
		}
		batch := config.Ports[start:end]

		var mu sync.Mutex
		var wg sync.WaitGroup
		batchResults := make([]ScanResult, 0, len(batch))

		for _, port := range batch {
			wg.Add(1)
			go func(port int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						fmt.Fprintf(os.Stderr, "warning: recovered from panic scanning %s:%d: %v\n", host, port, r)
						reporter.IncrementCompleted()
					}
				}()

				select {
				case <-ctx.Done():
					return
				case sem <- struct{}{}:
				}
				defer func() { <-sem }()

				result := scanPort(ctx, host, port, timeout, false, true)
				mu.Lock()
				batchResults = append(batchResults, result)
				mu.Unlock()
				reporter.IncrementCompleted()
			}(port)
		}

		wg.Wait()
		all = append(all, batchResults...)

		if ctx.Err() != nil {
			break
		}
	}

	<-progressDone

	sort.Slice(all, func(i, j int) bool { return all[i].Port < all[j].Port })
	for _, r := range all {
		select {
		case events <- newResultEvent(r):
		case <-ctx.Done():
			return
		}
	}
}

func concurrencyOf(config ScanConfig) int {
	if config.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return config.Concurrency
}

// CollectResults drains an engine's event channel, returning only the
// ScanResult payloads in the order they were emitted (already port-sorted
// by the engine) and the last progress snapshot observed, if any.
func CollectResults(events <-chan Event) ([]ScanResult, *ProgressEvent) {
	var results []ScanResult
	var lastProgress *ProgressEvent

	for ev := range events {
		switch ev.Kind {
		case EventKindResult:
			if ev.Result != nil {
				results = append(results, *ev.Result)
			}
		case EventKindProgress:
			if ev.Progress != nil {
				p := *ev.Progress
				lastProgress = &p
			}
		}
	}

	return results, lastProgress
}
