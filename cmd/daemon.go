package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alderwm/alder/internal/config"
	"github.com/alderwm/alder/internal/daemon"
	"github.com/alderwm/alder/internal/logger"
	"github.com/alderwm/alder/internal/surface"
)

var (
	daemonOutputs  []string
	daemonInitFile string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the alder window manager daemon",
	Long: `Run the alder daemon: the container tree, the Lua scripting
runtime, and the control socket. Without a compositor attached it runs
against simulated outputs, which is useful for scripting and testing.

  alder daemon                          # one 1920x1080 output
  alder daemon --output 2560x1440 --output 1920x1080`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringArrayVar(&daemonOutputs, "output", []string{"1920x1080"}, "Output resolution to attach (repeatable)")
	daemonCmd.Flags().StringVar(&daemonInitFile, "init", "", "Lua init script to run at startup")

	viper.BindPFlag("script.init_file", daemonCmd.Flags().Lookup("init"))

	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if socketPath != "" {
		cfg.IPC.SocketPath = socketPath
	}
	if daemonInitFile != "" {
		cfg.Script.InitFile = daemonInitFile
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	for _, res := range daemonOutputs {
		w, h, err := parseResolution(res)
		if err != nil {
			return err
		}
		d.AttachOutput(surface.NewFakeOutput(w, h))
	}

	if err := d.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	logger.Info("alder daemon running", "socket", d.SocketPath(), "outputs", len(daemonOutputs))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("shutting down", "signal", sig.String())
	d.Stop()
	return nil
}

// parseResolution parses "WIDTHxHEIGHT" into a pair of dimensions.
func parseResolution(s string) (width, height uint32, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q: want WIDTHxHEIGHT", s)
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &width); err != nil || width == 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q: bad width", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &height); err != nil || height == 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q: bad height", s)
	}
	return width, height, nil
}
