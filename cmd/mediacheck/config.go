package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MEDIACHECK"

var configFlags = []string{
	"log-level",
	"metrics-addr",
	"synthetic",
	"video",
	"audio",
	"screen",
	"duration",
	"quiet-volume",
}

// Config is resolved from flags, then MEDIACHECK_* environment variables,
// then the config file, then defaults.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	Synthetic   bool          `mapstructure:"synthetic"`
	Video       bool          `mapstructure:"video"`
	Audio       bool          `mapstructure:"audio"`
	Screen      bool          `mapstructure:"screen"`
	Duration    time.Duration `mapstructure:"duration"`
	QuietVolume float64       `mapstructure:"quiet_volume"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("synthetic", false)
	v.SetDefault("video", true)
	v.SetDefault("audio", true)
	v.SetDefault("screen", false)
	v.SetDefault("duration", 5*time.Second)
	v.SetDefault("quiet_volume", 0.2)
}

// loadConfig reads cfgFile (or mediacheck.yaml from the usual places) and
// binds every flag of cmd, "log-level" becoming the "log_level" key.
func loadConfig(cfgFile string, cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("mediacheck")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/mediacheck")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if cmd != nil {
		for _, name := range configFlags {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Duration < 0 {
		return nil, fmt.Errorf("duration must not be negative, got %s", cfg.Duration)
	}
	return cfg, nil
}
