package main

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/reoring/chunkparse"
	"github.com/reoring/chunkparse/schema"
	"github.com/reoring/chunkparse/speculate"
)

func newSpeculateCmd() *cobra.Command {
	var typeExpr string
	var prefix string
	var workers int

	cmd := &cobra.Command{
		Use:   "speculate [candidate...]",
		Short: "Evaluate candidate continuations of a prefix in parallel",
		Long: "Feeds --prefix to the parser, then evaluates every candidate against a copy\n" +
			"of the resulting state. An empty candidate (\"\") stands for end of input.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := schema.Compile(typeExpr)
			if err != nil {
				return err
			}
			res, err := chunkparse.Feed(p, nil, []byte(prefix))
			if err != nil {
				return fmt.Errorf("prefix rejected: %w", err)
			}
			if res.IsFinished() {
				return fmt.Errorf("prefix already completes the value (leftover %q)", res.Remaining)
			}
			ev := speculate.New(p, speculate.Options{MaxGoroutines: workers, Logger: logger})
			cands := lo.Map(args, func(a string, _ int) []byte { return []byte(a) })
			verdicts, err := ev.Evaluate(cmd.Context(), res.State, cands)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, v := range verdicts {
				switch v.Status {
				case speculate.Complete:
					status(w, okColor, "complete  ", "%q value=%v leftover=%q", args[v.Candidate], v.Value, v.Remaining)
				case speculate.Admissible:
					status(w, waitColor, "admissible", "%q", args[v.Candidate])
				default:
					status(w, failColor, "rejected  ", "%q: %v", args[v.Candidate], v.Err)
				}
			}
			weights := lo.Times(len(verdicts), func(int) float32 { return 1 })
			if err := speculate.Mask(weights, verdicts); err != nil {
				if errors.Is(err, speculate.ErrNoAdmissible) {
					return fmt.Errorf("all %d candidates rejected: %w", len(verdicts), err)
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeExpr, "type", "t", "", "type expression, e.g. array<u8, 3>")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "bytes already generated")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "maximum parallel evaluations (0 = GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
