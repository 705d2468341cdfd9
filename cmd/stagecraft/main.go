// Package main is the entry point for the stagecraft terminal host.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/stagecraft/internal/app"
	"github.com/dshills/stagecraft/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "stagecraft",
		Short: "Mode-driven interactive sketching in the terminal",
		Long: `stagecraft hosts an editing session driven by major and minor modes.

Drag with the left mouse button to add and move points. Every edit is
journaled, so it can be undone, redone and forked into alternate branches.

Keys:
  u undo    r redo    f fork at pointer    b redo latest branch
  1 Sketch  2 Inspect 0 Empty              m toggle crosshair
  q quit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHost(cmd.Context(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (.toml, .yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "stagecraft.log", "Log file; empty disables logging")

	cmd.AddCommand(newConfigCmd(opts), newVersionCmd())
	return cmd
}

// loadConfig loads the configuration file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLog opens the log destination. The terminal belongs to the host
// while it runs, so logs never go to stderr.
func (o *rootOptions) openLog() (io.Writer, func() error, error) {
	if o.logFile == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
