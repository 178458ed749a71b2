package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/chunkparse/schema"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <type-expr>",
		Short: "Print the JSON Schema of a type expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := schema.ParseTypeExpr(args[0])
			if err != nil {
				return err
			}
			sch, err := t.JSONSchema()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sch)
		},
	}
	return cmd
}
