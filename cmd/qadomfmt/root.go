package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "qadomfmt",
		Short:         "Parse, print, and validate JSON using qadom",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(parseCmd(), printCmd(), validateCmd())
	return root
}
