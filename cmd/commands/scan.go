package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucchesi-sec/nscan/internal/core"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
	"github.com/lucchesi-sec/nscan/internal/vulndb"
	"github.com/lucchesi-sec/nscan/pkg/config"
	nscanerrors "github.com/lucchesi-sec/nscan/pkg/errors"
	"github.com/lucchesi-sec/nscan/pkg/presets"
	"github.com/lucchesi-sec/nscan/pkg/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a target host, IP, or CIDR range",
	RunE:  runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.String("target", "", "target host, IP, or CIDR (e.g. 192.168.1.0/24)")
	flags.String("ports", "", "port spec (e.g. '22,80,443' or '1-1024')")
	flags.Bool("top100", false, "scan the top 100 most common ports")
	flags.Bool("top1000", false, "scan the top-1000 preset (343 common ports)")
	flags.Int("concurrency", 100, "concurrent port tasks per host")
	flags.Int("max-hosts", 1, "hosts scanned concurrently")
	flags.Int("timeout", 3000, "per-port connect timeout in milliseconds")
	flags.Int("ping-timeout", 800, "reachability probe timeout in milliseconds")
	flags.Bool("ping-sweep", false, "skip hosts that don't answer a reachability probe first")
	flags.Bool("banners", false, "grab service banners on open ports")
	flags.Bool("vuln-check", false, "correlate banners against the vulnerability database")
	flags.String("vuln-db", "vuln_db.json", "path to the vulnerability pattern database")
	flags.Bool("fast", false, "fast batched mode: higher concurrency, shorter timeouts, no banners")
	flags.String("format", "json", "report format: json, markdown, csv, html")
	flags.String("output", "", "write report to this file instead of stdout")

	// Flags whose pkg/config key is not simply the snake_case flag name.
	configKeys := map[string]string{
		"timeout":      "timeout_ms",
		"ping-timeout": "ping_timeout_ms",
		"vuln-db":      "vuln_db_path",
		"fast":         "fast_mode",
	}
	for _, name := range []string{"target", "ports", "top100", "top1000", "concurrency", "max-hosts",
		"timeout", "ping-timeout", "ping-sweep", "banners", "vuln-check", "vuln-db", "fast", "format", "output"} {
		key := mapstructureKey(name)
		if k, ok := configKeys[name]; ok {
			key = k
		}
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(scanCmd)
}

// mapstructureKey converts a kebab-case flag name to snake_case, which is
// the pkg/config mapstructure key for every scan flag not listed in init's
// configKeys.
func mapstructureKey(flag string) string {
	out := make([]byte, 0, len(flag))
	for i := 0; i < len(flag); i++ {
		if flag[i] == '-' {
			out = append(out, '_')
			continue
		}
		out = append(out, flag[i])
	}
	return string(out)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return nscanerrors.ConfigLoadError(cfgFile, err)
	}

	if cfg.Target == "" {
		return nscanerrors.NoTargetError()
	}

	ports, err := resolvePorts(cmd, cfg)
	if err != nil {
		return err
	}

	var correlator core.Correlator
	if cfg.VulnCheck {
		correlator, err = loadCorrelator(cfg.VulnDBPath)
		if err != nil {
			// DatabaseMalformed/Missing is a downgrade, not a fatal
			// error: warn and continue the scan without correlation.
			fmt.Fprintln(os.Stderr, "warning:", err)
			correlator = nil
		}
	}

	runCfg := orchestrator.RunConfig{
		Target:        cfg.Target,
		Ports:         ports,
		Concurrency:   cfg.Concurrency,
		MaxHosts:      cfg.MaxHosts,
		TimeoutMs:     cfg.TimeoutMs,
		PingTimeoutMs: cfg.PingTimeoutMs,
		PingSweep:     cfg.PingSweep,
		GrabBanners:   cfg.Banners,
		FastMode:      cfg.FastMode,
		Correlator:    correlator,
		Warn: func(msg string) {
			if !cfg.Quiet {
				fmt.Fprintln(os.Stderr, "warning:", msg)
			}
		},
	}

	targetCount, err := estimateTargetCount(cmd.Context(), cfg.Target, cfg.FastMode)
	if err == nil {
		orchestrator.ApplyFastMode(&runCfg, targetCount)
	}

	if err := orchestrator.Validate(runCfg); err != nil {
		return err
	}

	result, err := orchestrator.Run(cmd.Context(), runCfg)
	if err != nil {
		return nscanerrors.InvalidTargetError(cfg.Target, err)
	}

	if err := report.Write(result, cfg.Format, cfg.Output); err != nil {
		return err
	}

	if !cfg.Quiet && cfg.Output == "" && cfg.Format != "" {
		if cfg.NoColor {
			report.WriteTable(os.Stderr, result, true)
		} else {
			report.WriteConsole(os.Stderr, result)
		}
	}

	return nil
}

func resolvePorts(cmd *cobra.Command, cfg *config.Config) ([]int, error) {
	top100, _ := cmd.Flags().GetBool("top100")
	top1000, _ := cmd.Flags().GetBool("top1000")

	switch {
	case top100:
		return presets.Top100, nil
	case top1000:
		return presets.Top1000, nil
	case cfg.Preset != "":
		if p := presets.Get(cfg.Preset); p != nil {
			return p, nil
		}
	}

	if cfg.Ports == "" {
		return presets.Top100, nil
	}

	ports, err := core.ParsePorts(cfg.Ports)
	if err != nil {
		return nil, nscanerrors.InvalidPortSpecError(cfg.Ports, err)
	}
	return ports, nil
}

func loadCorrelator(path string) (core.Correlator, error) {
	db, err := vulndb.Load(path)
	if err != nil {
		return nil, nscanerrors.DatabaseError(path, err)
	}
	return vulndb.NewCorrelator(db), nil
}

func estimateTargetCount(ctx context.Context, target string, fast bool) (int, error) {
	hosts, err := core.Resolve(ctx, target, core.ResolveOptions{Fast: fast})
	if err != nil {
		return 0, err
	}
	return len(hosts), nil
}
