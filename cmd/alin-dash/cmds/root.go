package cmds

import "github.com/spf13/cobra"

func AddCommands(root *cobra.Command) error {
	root.AddCommand(newServeCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newPipeCmd())
	return nil
}
