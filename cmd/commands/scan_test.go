package commands

import (
	"testing"

	"github.com/lucchesi-sec/nscan/pkg/config"
	"github.com/lucchesi-sec/nscan/pkg/presets"
)

func TestMapstructureKey(t *testing.T) {
	tests := map[string]string{
		"max-hosts":    "max_hosts",
		"ping-timeout": "ping_timeout",
		"target":       "target",
		"vuln-db":      "vuln_db",
	}
	for in, want := range tests {
		if got := mapstructureKey(in); got != want {
			t.Errorf("mapstructureKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanCmdFlagsRegistered(t *testing.T) {
	for _, name := range []string{"target", "ports", "top100", "top1000", "concurrency",
		"max-hosts", "timeout", "ping-timeout", "ping-sweep", "banners", "vuln-check",
		"vuln-db", "fast", "format", "output"} {
		if scanCmd.Flags().Lookup(name) == nil {
			t.Errorf("scan flag %q not registered", name)
		}
	}
}

func TestResolvePortsExplicitSpec(t *testing.T) {
	cfg := &config.Config{Ports: "22,80,443"}
	ports, err := resolvePorts(scanCmd, cfg)
	if err != nil {
		t.Fatalf("resolvePorts: %v", err)
	}
	if len(ports) != 3 {
		t.Fatalf("got %d ports, want 3", len(ports))
	}
}

func TestResolvePortsDefaultsToTop100(t *testing.T) {
	cfg := &config.Config{}
	ports, err := resolvePorts(scanCmd, cfg)
	if err != nil {
		t.Fatalf("resolvePorts: %v", err)
	}
	if len(ports) != len(presets.Top100) {
		t.Errorf("got %d ports, want top-100's %d", len(ports), len(presets.Top100))
	}
}

func TestResolvePortsByPreset(t *testing.T) {
	cfg := &config.Config{Preset: "top-1000"}
	ports, err := resolvePorts(scanCmd, cfg)
	if err != nil {
		t.Fatalf("resolvePorts: %v", err)
	}
	if len(ports) != len(presets.Top1000) {
		t.Errorf("got %d ports, want top-1000's %d", len(ports), len(presets.Top1000))
	}
}

func TestResolvePortsInvalidSpec(t *testing.T) {
	cfg := &config.Config{Ports: "not-a-port"}
	if _, err := resolvePorts(scanCmd, cfg); err == nil {
		t.Error("expected error for invalid port spec")
	}
}

func TestLoadCorrelatorMissingFileReturnsError(t *testing.T) {
	if _, err := loadCorrelator("/nonexistent/vuln_db.json"); err == nil {
		t.Error("expected error for missing database file")
	}
}
