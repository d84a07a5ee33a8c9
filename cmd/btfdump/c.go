package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-btf/btfdump/pkg/btf/cdump"
	"github.com/go-btf/btfdump/pkg/btf/types"
)

func newCCmd() *cobra.Command {
	var (
		name          string
		unionAsStruct bool
	)

	cmd := &cobra.Command{
		Use:   "c <object>",
		Short: "Render the decoded BTF type graph back out as compilable C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBTF(args[0])
			if err != nil {
				return err
			}

			cfg := cdump.Config{
				Verbose:       isVerbose(cmd),
				UnionAsStruct: unionAsStruct,
				Blacklist:     cdump.DefaultBlacklist(),
			}
			dumper := cdump.New(b.Table, cfg, logrus.StandardLogger())

			filter := cdump.AllNamed
			if name != "" {
				filter = func(id types.ID, t types.Type) bool {
					return t.TypeName() == name
				}
			}
			return dumper.EmitTypes(cmd.OutOrStdout(), filter)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only dump the type with this exact name (plus what it requires)")
	cmd.Flags().BoolVar(&unionAsStruct, "union-as-struct", false, "render unions as struct /*union*/ for CO-RE consumers that reject union access")
	return cmd
}
