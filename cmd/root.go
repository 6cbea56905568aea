package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/config"
	"github.com/alderwm/alder/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	// Socket path override shared by all client commands
	socketPath string

	// Config file override
	configPath string

	rootCmd = &cobra.Command{
		Use:   "alder",
		Short: "Alder - tiling window manager core",
		Long: `Alder is the window management core of a tiling compositor.
It maintains the container tree (outputs, workspaces, containers, views),
exposes it over a per-user control socket, and runs user Lua scripts
against it. Client subcommands talk to a running daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Control socket path (default: per-user socket)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: /etc/alder, ~/.config/alder)")
}

// clientSocketPath resolves the socket a client command should dial:
// the --socket flag wins, then the configured path, then the per-user
// default inside the IPC client.
func clientSocketPath() string {
	if socketPath != "" {
		return socketPath
	}
	return config.Get().IPC.SocketPath
}
