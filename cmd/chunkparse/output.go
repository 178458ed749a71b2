package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	waitColor = color.New(color.FgHiYellow)
	failColor = color.New(color.FgRed, color.Bold)
)

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// status prints a colored label followed by a detail line.
func status(w io.Writer, c *color.Color, label, format string, args ...any) {
	c.Fprint(w, label)
	fmt.Fprintf(w, " "+format+"\n", args...)
}
