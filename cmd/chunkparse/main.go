package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/chunkparse/i18n"
)

var (
	verbose bool
	lang    string
	logger  = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chunkparse",
		Short:         "Incremental, resumable parsing of typed values",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			i18n.SetLanguage(lang)
			if !verbose {
				return nil
			}
			cfg := zap.NewDevelopmentConfig()
			cfg.DisableCaller = true
			l, err := cfg.Build()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log parse steps to stderr")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "en", "message language (en, ja)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newSpeculateCmd())
	rootCmd.AddCommand(newStructureCmd())
	rootCmd.AddCommand(newDescribeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
