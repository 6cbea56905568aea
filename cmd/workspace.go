package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/ipc"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var workspaceNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a workspace on the first output",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient(clientSocketPath())
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		status, err := client.NewWorkspace()
		if err != nil {
			return err
		}
		fmt.Printf("Created workspace %d\n", status.WorkspaceCount)
		return nil
	},
}

func init() {
	workspaceCmd.AddCommand(workspaceNewCmd)
	rootCmd.AddCommand(workspaceCmd)
}
