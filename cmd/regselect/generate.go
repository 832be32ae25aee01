package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/synth"
)

func newGenerateCmd() *cobra.Command {
	var (
		rows    int
		seed    int64
		missing float64
		out     string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic diamonds CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 1 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}
			if missing < 0 || missing >= 1 {
				return fmt.Errorf("--missing must be in [0, 1), got %v", missing)
			}
			t := synth.Diamonds(rows, seed, missing)
			if out == "" || out == "-" {
				return data.WriteCSVTo(cmd.OutOrStdout(), t)
			}
			if err := data.WriteCSV(out, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", rows, out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 5000, "number of rows")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().Float64Var(&missing, "missing", 0.01, "probability that a feature cell is blank")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (stdout when empty)")
	return cmd
}
