package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/dshills/stagecraft/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigValidateCmd(opts), newConfigShowCmd(opts))
	return cmd
}

func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a configuration file and report every problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				errs := multierr.Errors(err)
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
				}
				return fmt.Errorf("%s: %d problem(s)", displayPath(path), len(errs))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", displayPath(path))
			return nil
		},
	}
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return config.Encode(cfg, config.Format(format), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatTOML), "Output format (toml, yaml)")
	return cmd
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
