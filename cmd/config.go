package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		fmt.Printf("Config file:       %s\n", config.GetConfigPath())
		fmt.Printf("Workspaces/output: %d\n", cfg.Workspaces.PerOutput)
		fmt.Printf("Default layout:    %s\n", cfg.Workspaces.DefaultLayout)
		fmt.Printf("Border:            %dpx %s\n", cfg.Border.Thickness, cfg.Border.Color)
		if cfg.Script.InitFile != "" {
			fmt.Printf("Init script:       %s\n", cfg.Script.InitFile)
		}
		if cfg.IPC.SocketPath != "" {
			fmt.Printf("Socket:            %s\n", cfg.IPC.SocketPath)
		}
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(configCmd)
}
