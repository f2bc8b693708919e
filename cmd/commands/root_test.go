package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestRootCmdMetadata(t *testing.T) {
	if rootCmd.Use != "nscan" {
		t.Errorf("rootCmd.Use = %q; want %q", rootCmd.Use, "nscan")
	}
	if rootCmd.Short == "" {
		t.Error("rootCmd.Short is empty")
	}
	if rootCmd.Long == "" {
		t.Error("rootCmd.Long is empty")
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "quiet", "no-color", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not found", name)
		}
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	for _, name := range []string{"scan", "version"} {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestInitConfigWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".nscan.yaml")

	configContent := "concurrency: 250\ntimeout_ms: 500\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	viper.Reset()

	oldCfgFile := cfgFile
	cfgFile = configPath
	defer func() { cfgFile = oldCfgFile }()

	initConfig()

	if viper.GetInt("concurrency") != 250 {
		t.Errorf("concurrency = %d, want 250", viper.GetInt("concurrency"))
	}
}

func TestInitConfigWithoutConfigFile(t *testing.T) {
	viper.Reset()

	oldCfgFile := cfgFile
	cfgFile = ""
	defer func() { cfgFile = oldCfgFile }()

	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	initConfig() // must not panic when no config file exists
}

func TestInitConfigEnvironmentVariables(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	oldCfgFile := cfgFile
	cfgFile = ""
	defer func() { cfgFile = oldCfgFile }()

	os.Setenv("NSCAN_CONCURRENCY", "777")
	defer os.Unsetenv("NSCAN_CONCURRENCY")

	initConfig()

	if got := viper.GetInt("concurrency"); got != 777 {
		t.Errorf("viper.GetInt(concurrency) = %d, want 777 from NSCAN_CONCURRENCY", got)
	}
}
