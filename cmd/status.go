package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/ipc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the alder daemon",
	Long:  `Check the status of the running alder daemon: active workspace, workspace and view counts, and scripting runtime state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient(clientSocketPath())
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		if !client.IsRunning() {
			fmt.Println("alder daemon is not running")
			return nil
		}

		status, err := client.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get daemon status: %w", err)
		}

		fmt.Printf("Active workspace: %d\n", status.ActiveWorkspace)
		fmt.Printf("Workspaces:       %d\n", status.WorkspaceCount)
		fmt.Printf("Views:            %d\n", status.ViewCount)
		if status.ScriptRunning {
			fmt.Println("Script runtime:   running")
		} else {
			fmt.Println("Script runtime:   stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
