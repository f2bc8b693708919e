// Package config loads run configuration from flags, environment, and an
// optional config file via viper, then validates it with
// go-playground/validator before the orchestrator sees it.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the validated, defaulted superset of spec.md §6's input
// configuration.
type Config struct {
	Target        string `mapstructure:"target"`
	Ports         string `mapstructure:"ports"`
	Preset        string `mapstructure:"preset" validate:"omitempty,oneof=top-100 top-1000"`
	Concurrency   int    `mapstructure:"concurrency" validate:"min=1,max=100000"`
	MaxHosts      int    `mapstructure:"max_hosts" validate:"min=1,max=10000"`
	TimeoutMs     int    `mapstructure:"timeout_ms" validate:"min=1,max=60000"`
	PingTimeoutMs int    `mapstructure:"ping_timeout_ms" validate:"min=1,max=60000"`
	PingSweep     bool   `mapstructure:"ping_sweep"`
	Banners       bool   `mapstructure:"banners"`
	VulnCheck     bool   `mapstructure:"vuln_check"`
	VulnDBPath    string `mapstructure:"vuln_db_path"`
	FastMode      bool   `mapstructure:"fast_mode"`
	Format        string `mapstructure:"format" validate:"omitempty,oneof=json markdown csv html"`
	Output        string `mapstructure:"output"`
	Verbose       bool   `mapstructure:"verbose"`
	Quiet         bool   `mapstructure:"quiet"`
	NoColor       bool   `mapstructure:"no_color"`
}

// Load unmarshals viper's current state into a Config with defaults
// matching spec.md §6, then validates it.
func Load() (*Config, error) {
	var cfg Config

	viper.SetDefault("concurrency", 100)
	viper.SetDefault("max_hosts", 1)
	viper.SetDefault("timeout_ms", 3000)
	viper.SetDefault("ping_timeout_ms", 800)
	viper.SetDefault("ping_sweep", false)
	viper.SetDefault("banners", false)
	viper.SetDefault("vuln_check", false)
	viper.SetDefault("vuln_db_path", "vuln_db.json")
	viper.SetDefault("fast_mode", false)
	viper.SetDefault("format", "json")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Timeout returns TimeoutMs as a time.Duration for callers that want it
// pre-converted rather than repeating the multiplication.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// PingTimeout returns PingTimeoutMs as a time.Duration.
func (c *Config) PingTimeout() time.Duration {
	return time.Duration(c.PingTimeoutMs) * time.Millisecond
}
