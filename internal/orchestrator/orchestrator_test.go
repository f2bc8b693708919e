package orchestrator

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestRunSingleHostMergesResults(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start listener: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	report, err := Run(ctx, RunConfig{
		Target:      "127.0.0.1",
		Ports:       []int{port},
		Concurrency: 4,
		MaxHosts:    1,
		TimeoutMs:   300,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(report.Hosts) != 1 {
		t.Fatalf("got %d host reports, want 1", len(report.Hosts))
	}
	if len(report.Hosts[0].Results) != 1 || !report.Hosts[0].Results[0].IsOpen {
		t.Fatalf("Results = %+v, want one open result", report.Hosts[0].Results)
	}
	if report.Summary.OpenPorts != 1 {
		t.Errorf("Summary.OpenPorts = %d, want 1", report.Summary.OpenPorts)
	}
	if report.Summary.TotalTargets != 1 {
		t.Errorf("Summary.TotalTargets = %d, want 1", report.Summary.TotalTargets)
	}
	if _, err := time.Parse(time.RFC3339, report.Summary.Timestamp); err != nil {
		t.Errorf("Summary.Timestamp = %q is not RFC3339: %v", report.Summary.Timestamp, err)
	}
}

func TestRunPingSweepEmptyResultIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report, err := Run(ctx, RunConfig{
		Target:        "192.0.2.1", // RFC 5737 documentation address: never answers
		Ports:         []int{80},
		Concurrency:   4,
		MaxHosts:      1,
		TimeoutMs:     100,
		PingTimeoutMs: 50,
		PingSweep:     true,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Hosts) != 0 {
		t.Errorf("Hosts = %+v, want empty after ping sweep filters everything out", report.Hosts)
	}
}

func TestApplyFastModeSkipsPingSweepForSingleTarget(t *testing.T) {
	cfg := RunConfig{FastMode: true, PingSweep: true, GrabBanners: true}
	ApplyFastMode(&cfg, 1)

	if cfg.PingSweep {
		t.Error("expected PingSweep to be disabled for a single target in fast mode")
	}
	if cfg.GrabBanners {
		t.Error("expected GrabBanners to be disabled in fast mode")
	}
	if cfg.TimeoutMs != 95 {
		t.Errorf("TimeoutMs = %d, want 95", cfg.TimeoutMs)
	}
}

func TestApplyFastModeKeepsPingSweepForMultipleTargets(t *testing.T) {
	cfg := RunConfig{FastMode: true, PingSweep: true}
	ApplyFastMode(&cfg, 3)

	if !cfg.PingSweep {
		t.Error("expected PingSweep to remain enabled for multiple targets in fast mode")
	}
}

func TestValidateRejectsEmptyTarget(t *testing.T) {
	if err := Validate(RunConfig{Ports: []int{80}}); err == nil {
		t.Fatal("expected error for empty target")
	}
}

func TestValidateRejectsEmptyPorts(t *testing.T) {
	if err := Validate(RunConfig{Target: "127.0.0.1"}); err == nil {
		t.Fatal("expected error for empty port list")
	}
}
