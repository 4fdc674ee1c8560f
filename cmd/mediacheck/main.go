// Command mediacheck checks whether this host can take part in a video call:
// it opens the camera, the microphone and optionally a screen, shows the
// microphone level and reports what worked.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pion/mediacheck"
	"github.com/pion/mediacheck/internal/logging"
	"github.com/pion/mediacheck/internal/metrics"
	"github.com/pion/mediacheck/pkg/driver"
	"github.com/pion/mediacheck/pkg/driver/audiotest"
	"github.com/pion/mediacheck/pkg/driver/camera"
	"github.com/pion/mediacheck/pkg/driver/microphone"
	"github.com/pion/mediacheck/pkg/driver/screen"
	"github.com/pion/mediacheck/pkg/driver/videotest"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgFile string
	cfg     *Config
	log     = logging.NewLogger("mediacheck/cli")
)

var rootCmd = &cobra.Command{
	Use:           "mediacheck",
	Short:         "Check camera, microphone and screen capture",
	Long:          `mediacheck verifies that the capture devices of this host are usable for video conferencing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgFile, cmd)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.SetLevel(level)

		if cfg.MetricsAddr != "" {
			go serveMetrics(cfg.MetricsAddr)
		}
		return nil
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := driver.NewManager()
		if err := registerDrivers(m, cfg.Synthetic); err != nil {
			return err
		}
		return printDevices(cmd.OutOrStdout(), mediacheck.NewMediaDevices(m).EnumerateDevices())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Open the devices and report what works",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runCheck(ctx, cmd.OutOrStdout(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mediacheck v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mediacheck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve prometheus metrics on this address")
	rootCmd.PersistentFlags().Bool("synthetic", false, "use synthetic test devices instead of the host devices")

	checkCmd.Flags().Bool("video", true, "check the camera")
	checkCmd.Flags().Bool("audio", true, "check the microphone")
	checkCmd.Flags().Bool("screen", false, "check screen sharing")
	checkCmd.Flags().Duration("duration", 5*time.Second, "how long to watch the microphone level")
	checkCmd.Flags().Float64("quiet-volume", mediacheck.DefaultQuietVolume, "playback volume of the microphone echo")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	log.Infof("serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server stopped: %v", err)
	}
}

func registerDrivers(m *driver.Manager, synthetic bool) error {
	if synthetic {
		if err := videotest.RegisterCamera(m, "Synthetic Camera"); err != nil {
			return err
		}
		if err := videotest.RegisterScreen(m, "Synthetic Screen"); err != nil {
			return err
		}
		return audiotest.Register(m, "Synthetic Microphone")
	}

	// A missing backend only removes its devices.
	backends := []struct {
		name     string
		register func(*driver.Manager) error
	}{
		{"camera", camera.Register},
		{"microphone", microphone.Register},
		{"screen", screen.Register},
	}
	for _, b := range backends {
		if err := b.register(m); err != nil {
			log.Warnf("failed to register %s drivers: %v", b.name, err)
		}
	}
	return nil
}

func printDevices(w io.Writer, devices []mediacheck.MediaDeviceInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tTYPE\tLABEL\tID")
	for _, d := range devices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Kind, d.DeviceType, d.Label, d.DeviceID)
	}
	return tw.Flush()
}

// levelBar renders level as a fixed width bar.
func levelBar(level float64, width int) string {
	n := int(level*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", width-n) + "]"
}
