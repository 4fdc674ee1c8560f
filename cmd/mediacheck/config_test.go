package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().String("metrics-addr", "", "")
	cmd.Flags().Bool("synthetic", false, "")
	cmd.Flags().Bool("video", true, "")
	cmd.Flags().Bool("audio", true, "")
	cmd.Flags().Bool("screen", false, "")
	cmd.Flags().Duration("duration", 5*time.Second, "")
	cmd.Flags().Float64("quiet-volume", 0.2, "")
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", newFlagCommand())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		LogLevel:    "info",
		Video:       true,
		Audio:       true,
		Duration:    5 * time.Second,
		QuietVolume: 0.2,
	}, cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "mediacheck.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log_level: debug
metrics_addr: ":9100"
duration: 2s
screen: true
quiet_volume: 0.5
`), 0o600))

	t.Setenv("MEDIACHECK_METRICS_ADDR", ":9200")
	t.Setenv("MEDIACHECK_SYNTHETIC", "true")
	t.Setenv("MEDIACHECK_DURATION", "3s")

	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("duration", "1s"))

	cfg, err := loadConfig(file, cmd)
	require.NoError(t, err)

	// file
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Screen)
	assert.Equal(t, 0.5, cfg.QuietVolume)
	// env over file
	assert.Equal(t, ":9200", cfg.MetricsAddr)
	assert.True(t, cfg.Synthetic)
	// flag over env
	assert.Equal(t, time.Second, cfg.Duration)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("duration", "-1s"))
	_, err = loadConfig("", cmd)
	assert.Error(t, err)
}
