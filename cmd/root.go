package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/fq/extract"
	"github.com/gnolang/fq/query"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	debug   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "fq [paths...]",
	Short:            "fq - extract named fields from text with format queries",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(debug)
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: fq [path1 path2 ...] => behaves like the extract subcommand
		extractCmd.Run(extractCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", extract.DefaultConfigPath, "Rule file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for extraction")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging and format tracing")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(extractCmd)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// queryOptions returns the parse options implied by the global flags.
func queryOptions() []query.Option {
	if !debug || logger == nil {
		return nil
	}
	return []query.Option{query.WithTracer(query.NewZapTracer(logger))}
}
