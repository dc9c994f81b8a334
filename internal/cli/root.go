// Package cli implements the underwriter command line: summarizing datasets
// to stdout or files, and printing version information.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/piyushmakhija5/ai-playground/internal/app"
	"github.com/piyushmakhija5/ai-playground/internal/config"
	"github.com/piyushmakhija5/ai-playground/internal/infrastructure"
)

const appName = "underwriter"

// env is the state shared by subcommands once the root command has run its
// pre-run hook.
type env struct {
	cfgFile string
	debug   bool
	verbose bool

	prompter Prompter

	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	metrics   *infrastructure.BusinessMetrics
}

// Option customizes the root command, mostly for tests.
type Option func(*env)

// WithPrompter replaces the interactive promptui prompter.
func WithPrompter(p Prompter) Option {
	return func(e *env) { e.prompter = p }
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	e := &env{prompter: promptuiPrompter{}}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Summarize seller order exports into credit underwriting metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return e.teardown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&e.cfgFile, "config", "", "YAML config file (default $UNDERWRITER_CONFIG_FILE or config.yaml)")
	root.PersistentFlags().BoolVarP(&e.debug, "debug", "d", false, "debug logging")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "info logging")

	root.AddCommand(newSummarizeCommand(e), newVersionCommand())
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (e *env) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if e.cfgFile != "" {
		cfg, err = config.LoadFrom(e.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// stdout carries results, so logs go to stderr and stay quiet by default
	switch {
	case e.debug:
		cfg.Logging.Level = "debug"
	case e.verbose:
		cfg.Logging.Level = "info"
	default:
		cfg.Logging.Level = "warn"
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	providers, metrics, err := app.InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}

	e.cfg, e.logger, e.providers, e.metrics = cfg, logger, providers, metrics
	return nil
}

func (e *env) teardown(ctx context.Context) error {
	if e.providers == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return e.providers.Shutdown(ctx)
}
