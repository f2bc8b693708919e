package config

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name      string
		timeoutMs int
		want      time.Duration
	}{
		{name: "1 second timeout", timeoutMs: 1000, want: time.Second},
		{name: "500ms timeout", timeoutMs: 500, want: 500 * time.Millisecond},
		{name: "3 second default", timeoutMs: 3000, want: 3 * time.Second},
		{name: "zero timeout", timeoutMs: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{TimeoutMs: tt.timeoutMs}
			if got := c.Timeout(); got != tt.want {
				t.Errorf("Config.Timeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPingTimeout(t *testing.T) {
	c := &Config{PingTimeoutMs: 800}
	if got, want := c.PingTimeout(), 800*time.Millisecond; got != want {
		t.Errorf("Config.PingTimeout() = %v, want %v", got, want)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Concurrency: 100,
				MaxHosts:    1,
				TimeoutMs:   3000,
				Format:      "json",
			},
			wantErr: false,
		},
		{
			name: "valid with preset and format",
			config: Config{
				Concurrency: 50,
				MaxHosts:    4,
				TimeoutMs:   1500,
				Preset:      "top-1000",
				Format:      "markdown",
			},
			wantErr: false,
		},
		{
			name: "invalid concurrency too high",
			config: Config{
				Concurrency: 200000,
				MaxHosts:    1,
				TimeoutMs:   3000,
			},
			wantErr: true,
		},
		{
			name: "invalid timeout zero",
			config: Config{
				Concurrency: 100,
				MaxHosts:    1,
				TimeoutMs:   0,
			},
			wantErr: true,
		},
		{
			name: "invalid max_hosts too many",
			config: Config{
				Concurrency: 100,
				MaxHosts:    50000,
				TimeoutMs:   3000,
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: Config{
				Concurrency: 100,
				MaxHosts:    1,
				TimeoutMs:   3000,
				Format:      "xml",
			},
			wantErr: true,
		},
		{
			name: "invalid preset",
			config: Config{
				Concurrency: 100,
				MaxHosts:    1,
				TimeoutMs:   3000,
				Preset:      "top-50",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate := validator.New()
			err := validate.Struct(&tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Concurrency != 100 {
		t.Errorf("Concurrency = %d, want 100", cfg.Concurrency)
	}
	if cfg.MaxHosts != 1 {
		t.Errorf("MaxHosts = %d, want 1", cfg.MaxHosts)
	}
	if cfg.TimeoutMs != 3000 {
		t.Errorf("TimeoutMs = %d, want 3000", cfg.TimeoutMs)
	}
	if cfg.PingTimeoutMs != 800 {
		t.Errorf("PingTimeoutMs = %d, want 800", cfg.PingTimeoutMs)
	}
	if cfg.VulnDBPath != "vuln_db.json" {
		t.Errorf("VulnDBPath = %q, want vuln_db.json", cfg.VulnDBPath)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
}

func TestLoadWithViperOverrides(t *testing.T) {
	viper.Reset()

	viper.Set("concurrency", 250)
	viper.Set("timeout_ms", 1000)
	viper.Set("format", "csv")
	viper.Set("fast_mode", true)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Concurrency != 250 {
		t.Errorf("Concurrency = %d, want 250", cfg.Concurrency)
	}
	if cfg.TimeoutMs != 1000 {
		t.Errorf("TimeoutMs = %d, want 1000", cfg.TimeoutMs)
	}
	if cfg.Format != "csv" {
		t.Errorf("Format = %q, want csv", cfg.Format)
	}
	if !cfg.FastMode {
		t.Error("FastMode = false, want true")
	}
}

func TestLoadWithInvalidConfig(t *testing.T) {
	viper.Reset()
	viper.Set("concurrency", 500000) // too high

	if _, err := Load(); err == nil {
		t.Error("Load() should return error for invalid config")
	}
}
