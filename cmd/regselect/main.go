// regselect trains a catalog of regression models on a tabular dataset,
// keeps the one with the best held-out R² and scores new records with it.
//
// Subcommands:
//   - train: run ingest, split, transform, evaluate and select
//   - predict: score a CSV with the persisted preprocessor and model
//   - generate: write a synthetic diamonds CSV
//   - config: print the effective configuration
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
