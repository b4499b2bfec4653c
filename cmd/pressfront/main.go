// Command pressfront serves a themed front-end for a headless WordPress site
// and scaffolds new sites.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/pressfront"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pressfront [command]",
		Short: "A server-rendered front-end for headless WordPress",
		Long: `pressfront renders a WordPress site through its REST API with a built-in
theme. Settings come from settings.yaml (or $SETTINGS), .env files and the
environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().StringP("settings", "c", pressfront.EnvOr("SETTINGS", "settings.yaml"), "path to the settings file")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
