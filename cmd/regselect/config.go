package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after defaults, the --config file, .env and
REGSELECT_* environment overrides have been applied.

Examples:
  regselect config
  regselect config --config pipeline.yaml
  regselect config --write pipeline.yaml   # start a config file from the defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if write != "" {
				return cfg.SaveToFile(write)
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the configuration to this file instead of printing it")
	return cmd
}
