package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/pipeline"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/report"
)

func newTrainCmd(opts *rootOptions) *cobra.Command {
	var (
		source  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Evaluate every candidate model and persist the best one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.Data.Source = source
			}
			if cmd.Flags().Changed("workers") {
				cfg.Evaluation.Workers = workers
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := (&pipeline.Runner{Config: cfg, Log: log}).Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, row := range report.Rows(res.Report, res.Best.Name) {
				mark := " "
				if row.Selected {
					mark = "*"
				}
				if row.Status == report.StatusFailed {
					fmt.Fprintf(out, "  %-20s failed: %s\n", row.Model, row.Error)
					continue
				}
				fmt.Fprintf(out, "%s %-20s R2=%.6f\n", mark, row.Model, row.R2)
			}
			fmt.Fprintf(out, "best model %s saved to %s\n", res.Best.Name, res.ModelPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "override data.source")
	cmd.Flags().IntVar(&workers, "workers", 1, "candidates evaluated concurrently (0 = one per CPU)")
	return cmd
}
