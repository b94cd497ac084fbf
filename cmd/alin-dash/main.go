package main

import (
	"github.com/go-go-golems/alin-dash/cmd/alin-dash/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "alin-dash",
	Short:   "alin-dash is a live dashboard for a synthetic log event stream",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitLoggerFromCobra(cmd)
	},
}

func main() {
	cobra.CheckErr(logging.AddLoggingLayerToRootCommand(rootCmd, "alin-dash"))
	cmds.AddRootFlags(rootCmd)
	cobra.CheckErr(cmds.AddCommands(rootCmd))
	cobra.CheckErr(rootCmd.Execute())
}
