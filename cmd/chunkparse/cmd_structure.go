package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/chunkparse"
	"github.com/reoring/chunkparse/schema"
)

func newStructureCmd() *cobra.Command {
	var outputs string

	cmd := &cobra.Command{
		Use:   "structure <file.yaml|file.json>",
		Short: "Validate a plugin structure and print it as JSON Schema",
		Long: "Loads a structure declaration and prints its JSON Schema. With --outputs the\n" +
			"given bracketed output list is parsed against the declaration instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read structure: %w", err)
			}
			st, err := schema.Load(data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if cmd.Flags().Changed("outputs") {
				p, err := st.OutputParser()
				if err != nil {
					return err
				}
				v, rest, err := chunkparse.ParseAll(p, []byte(outputs))
				if err != nil {
					status(w, failColor, "rejected", "%v", err)
					return err
				}
				status(w, okColor, "finished", "leftover %q", rest)
				return writeJSON(w, v)
			}
			sch, err := st.JSONSchema()
			if err != nil {
				return err
			}
			return writeJSON(w, sch)
		},
	}
	cmd.Flags().StringVar(&outputs, "outputs", "", "parse this output list against the structure")
	return cmd
}
