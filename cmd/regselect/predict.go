package main

import (
	"github.com/spf13/cobra"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/pipeline"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var input, output, column string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a CSV file with the persisted preprocessor and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			p, err := pipeline.LoadPredictor(cfg.Artifacts.PreprocessorPath, cfg.Artifacts.ModelPath)
			if err != nil {
				return err
			}
			t, err := data.ReadCSV(input)
			if err != nil {
				return err
			}
			pred, err := p.Predict(t)
			if err != nil {
				return err
			}
			if column == "" {
				column = "predicted_" + cfg.Columns.Target
			}
			out, err := pipeline.WithPredictions(t, column, pred)
			if err != nil {
				return err
			}

			log.WithField("model", p.Bundle.Name).WithField("rows", len(pred)).Info("records scored")
			if output == "" || output == "-" {
				return data.WriteCSVTo(cmd.OutOrStdout(), out)
			}
			return data.WriteCSV(output, out)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file to score")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (stdout when empty)")
	cmd.Flags().StringVar(&column, "column", "", "name of the prediction column (default predicted_<target>)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
