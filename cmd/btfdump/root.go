package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "btfdump",
		Short:         "Inspect and render BTF (BPF Type Format) data from ELF objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit debug traces")

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newTypesCmd())
	cmd.AddCommand(newCCmd())
	cmd.AddCommand(newRelocCmd())
	return cmd
}
