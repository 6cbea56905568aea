package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alderwm/alder/internal/ipc"
)

var runExpr string

var runCmd = &cobra.Command{
	Use:   "run [file.lua]",
	Short: "Run a Lua script in the daemon",
	Long: `Run Lua code inside the daemon's scripting runtime. The code sees
the same 'alder' bindings the init script does.

  alder run layout.lua
  alder run -e 'alder.switch_workspace(1)'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := runExpr
		switch {
		case code != "" && len(args) > 0:
			return fmt.Errorf("pass either a file or -e, not both")
		case code == "" && len(args) == 0:
			return fmt.Errorf("nothing to run: pass a file or -e 'code'")
		case code == "":
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			code = string(data)
		}

		client, err := ipc.NewClient(clientSocketPath())
		if err != nil {
			return fmt.Errorf("failed to create IPC client: %w", err)
		}
		return client.RunScript(code)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runExpr, "eval", "e", "", "Lua expression to run")
	rootCmd.AddCommand(runCmd)
}
