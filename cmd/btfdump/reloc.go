package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-btf/btfdump/pkg/btf/core"
)

func newRelocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reloc <program.o> <target-vmlinux>",
		Short: "Resolve the CO-RE field relocations a program object records against a target BTF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := loadBTF(args[0])
			if err != nil {
				return errors.Wrap(err, "loading local object")
			}
			target, err := loadBTF(args[1])
			if err != nil {
				return errors.Wrap(err, "loading target object")
			}
			if !local.HasExt() {
				return errors.New("local object has no .BTF.ext section, no relocations to resolve")
			}
			localExt, err := local.Ext()
			if err != nil {
				return err
			}

			relocator := core.NewRelocator(local.Table, target.Table, target.Names, core.RelocatorCfg{
				Verbose: isVerbose(cmd),
			}, logrus.StandardLogger())

			results, err := relocator.Relocate(localExt.CoreRelocs)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			return nil
		},
	}
	return cmd
}
