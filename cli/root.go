// Package cli is the console's command line: the web server plus a few
// session commands that keep their credentials in an encrypted file.
package cli

import (
	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/jrsteele09/sop-console/internal/logging"
	"github.com/spf13/cobra"
)

var BuildVersion = "dev"

func newRootCommand(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "sop-console",
		Short:         "SOP console",
		Long:          "Web console and command line client for the SOP management backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(cfg.GetEnv(), cmd.ErrOrStderr())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of the console",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s\n", BuildVersion)
		},
	})
	root.AddCommand(newServeCommand(cfg))
	root.AddCommand(newLoginCommand(cfg))
	root.AddCommand(newLogoutCommand(cfg))
	root.AddCommand(newWhoamiCommand(cfg))
	return root
}

func Execute() error {
	root := newRootCommand(config.New())
	if err := root.Execute(); err != nil {
		root.PrintErrf("Error: %s\n", err)
		return err
	}
	return nil
}
