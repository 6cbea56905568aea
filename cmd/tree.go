package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/ipc"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Dump the daemon's container tree as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.NewClient(clientSocketPath())
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}

		raw, err := client.GetTree()
		if err != nil {
			return err
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return fmt.Errorf("failed to format tree: %w", err)
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
