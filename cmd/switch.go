package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/ipc"
)

var switchCmd = &cobra.Command{
	Use:   "switch <workspace>",
	Short: "Switch to a workspace",
	Long: `Switch the running daemon to the given workspace index.
Views on the current workspace are hidden, views on the target are shown.

Example usage in compositor configs:
  bindsym $mod+1 exec alder switch 0
  bindsym $mod+2 exec alder switch 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace index %q", args[0])
		}

		client, err := ipc.NewClient(clientSocketPath())
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		status, err := client.SwitchWorkspace(index)
		if err != nil {
			return err
		}
		fmt.Printf("Switched to workspace %d (%d workspaces, %d views)\n",
			status.ActiveWorkspace, status.WorkspaceCount, status.ViewCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
