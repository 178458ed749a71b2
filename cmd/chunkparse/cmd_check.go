package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/chunkparse"
	"github.com/reoring/chunkparse/schema"
)

func newCheckCmd() *cobra.Command {
	var typeExpr string
	var chunkSize int
	var input string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse a value from stdin (or --input) in fixed-size chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chunkSize <= 0 {
				return fmt.Errorf("--chunk must be positive, got %d", chunkSize)
			}
			p, err := schema.Compile(typeExpr)
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				r = f
			}
			return check(cmd.OutOrStdout(), p, bufio.NewReader(r), chunkSize)
		},
	}
	cmd.Flags().StringVarP(&typeExpr, "type", "t", "", "type expression, e.g. vec<u8>")
	cmd.Flags().IntVarP(&chunkSize, "chunk", "n", 4, "chunk size in bytes")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read from file instead of stdin")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func check(w io.Writer, p chunkparse.Parser[any], r io.Reader, size int) error {
	sess := chunkparse.NewSession(p)
	buf := make([]byte, size)
	step := 0
	for !sess.Done() {
		n, rerr := io.ReadFull(r, buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			step++
			if _, err := sess.Push(chunk); err != nil {
				status(w, failColor, "rejected", "chunk %d %q: %v", step, chunk, err)
				return err
			}
			logger.Debug("chunk", zap.Int("step", step), zap.ByteString("bytes", chunk), zap.Bool("done", sess.Done()))
			if !sess.Done() {
				status(w, waitColor, "incomplete", "chunk %d %q", step, chunk)
			}
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read input: %w", rerr)
		}
	}
	if !sess.Done() {
		if _, err := sess.Close(); err != nil {
			status(w, failColor, "rejected", "end of input: %v", err)
			return err
		}
	}
	v, rest, _ := sess.Value()
	status(w, okColor, "finished", "leftover %q", rest)
	return writeJSON(w, v)
}
