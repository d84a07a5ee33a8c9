package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <object>",
		Short: "Print summary counts for an object's .BTF and .BTF.ext sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBTF(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "types: %d\n", b.Table.Len()-1)
			fmt.Fprintf(cmd.OutOrStdout(), "pointer size: %d\n", b.Table.PointerSize())
			if !b.HasExt() {
				fmt.Fprintln(cmd.OutOrStdout(), "no .BTF.ext section")
				return nil
			}
			e, err := b.Ext()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "func_info records: %d\n", len(e.FuncInfos))
			fmt.Fprintf(cmd.OutOrStdout(), "line_info records: %d\n", len(e.LineInfos))
			fmt.Fprintf(cmd.OutOrStdout(), "core_relo records: %d\n", len(e.CoreRelocs))
			for _, w := range e.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}
			return nil
		},
	}
}
