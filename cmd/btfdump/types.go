package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-btf/btfdump/pkg/btf/types"
)

func newTypesCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "types <object>",
		Short: "List decoded BTF types, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBTF(args[0])
			if err != nil {
				return err
			}
			var ids []types.ID
			if name != "" {
				ids = b.Names.Lookup(name)
			} else {
				ids = make([]types.ID, 0, b.Table.Len()-1)
				for id := 1; id < b.Table.Len(); id++ {
					ids = append(ids, types.ID(id))
				}
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", id, b.Table.FormatType(id))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only print types with this exact name")
	return cmd
}
