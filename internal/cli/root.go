// Package cli implements the uncertain command line: loading a YAML dataset,
// aggregating its series and printing an aligned table.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags and the logger shared by all commands.
type RootOptions struct {
	Verbose bool
	Logger  *zap.Logger // built in PersistentPreRunE unless preset
}

// NewRootCommand creates the root command for the uncertain CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "uncertain",
		Short: "First-order uncertainty propagation",
		Long: `uncertain aggregates series of measurements with correlated
uncertainties and prints the result per error budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if opts.Verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewAggregateCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
