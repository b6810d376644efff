package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/uncertain/format"
	"github.com/katalvlaran/uncertain/session"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// Aggregation modes.
const (
	ModeMean           = "mean"
	ModeRepresentative = "representative"
)

// AggregateOptions holds the aggregate command flags.
type AggregateOptions struct {
	File     string
	Mode     string
	Digits   int
	ByBudget bool
}

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate every series of a dataset",
		Long: `Reads a YAML dataset, reduces each series to one value and prints a table.

Modes:
  - mean: precision of the weighted mean (shrinks like 1/sqrt(N))
  - representative: uncertainty of a typical sample

Example:
  uncertain aggregate --file data.yaml --mode representative --by-budget`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd.Context(), rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "dataset YAML file")
	cmd.Flags().StringVar(&opts.Mode, "mode", ModeMean, "aggregation mode (mean|representative)")
	cmd.Flags().IntVar(&opts.Digits, "digits", format.DefaultDigits, "digits after the decimal point")
	cmd.Flags().BoolVar(&opts.ByBudget, "by-budget", false, "one column per error budget instead of the total")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runAggregate(ctx context.Context, rootOpts *RootOptions, opts *AggregateOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Mode != ModeMean && opts.Mode != ModeRepresentative {
		return fmt.Errorf("invalid mode %q: must be %s or %s", opts.Mode, ModeMean, ModeRepresentative)
	}
	logger := rootOpts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := LoadDataset(opts.File)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded",
		zap.String("name", ds.Name),
		zap.Int("series", len(ds.Series)),
	)

	reg := session.NewRegistry(session.WithLogger(logger))
	if w, ok := ds.WeightingRule(); ok {
		g, err := reg.SetDefault(uncertain.ProtocolWeighting, w)
		if err != nil {
			return err
		}
		defer func() { _ = g.Release() }()
	}
	policy := format.Policy{Digits: opts.Digits}
	if opts.ByBudget {
		policy.Budgets = []string{uncertain.BudgetDispersion, uncertain.BudgetSystematic}
	}
	pg, err := reg.SetDefault(format.Protocol, policy)
	if err != nil {
		return err
	}
	defer func() { _ = pg.Release() }()

	alloc := source.NewAllocator()
	values, err := ds.Build(alloc)
	if err != nil {
		return err
	}

	agg := uncertain.NewAggregator(alloc, reg)
	rows := make([]format.Row, 0, len(values))
	for i, v := range values {
		samples, err := uncertain.Samples(v)
		if err != nil {
			return fmt.Errorf("series %q: %w", ds.Series[i].Name, err)
		}
		var res *uncertain.Value
		if opts.Mode == ModeMean {
			res, err = agg.Mean(ctx, samples)
		} else {
			res, err = agg.Representative(ctx, samples)
		}
		if err != nil {
			return fmt.Errorf("series %q: %w", ds.Series[i].Name, err)
		}
		logger.Debug("series aggregated",
			zap.String("series", ds.Series[i].Name),
			zap.String("mode", opts.Mode),
			zap.Int("samples", len(ds.Series[i].Values)),
		)
		rows = append(rows, format.Row{Label: ds.Series[i].Name, Value: res})
	}

	out, err := format.NewFormatter(reg).Render(ctx, rows)
	if err != nil {
		return err
	}
	logger.Info("aggregation complete",
		zap.String("dataset", ds.Name),
		zap.Uint64("sources", alloc.Issued()),
	)
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)

	return err
}
