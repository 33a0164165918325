// Package commands implements the moviescope subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/moviescope/internal/cli/config"
	"github.com/leapstack-labs/moviescope/internal/cli/output"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the configuration, logger and renderer the root
// command stored in the context. A command run on its own falls back to
// loading the configuration and building a renderer on its output streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, ok := config.FromContext(ctx)
	if !ok {
		cfg = getConfig()
	}
	r, ok := output.FromContext(ctx)
	if !ok {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}
}

// Loader returns a dataset loader shaped by the configuration.
func (c *CommandContext) Loader() *dataset.Loader {
	return dataset.NewLoader(
		dataset.WithSchema(c.Cfg.Schema()),
		dataset.WithLogger(c.Logger),
	)
}

// LoadDataset loads the configured input file.
func (c *CommandContext) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	return c.Loader().Load(ctx, c.Cfg.DataPath)
}

// getConfig returns the current configuration, loading it from the working
// directory and environment when no command has loaded it yet.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return config.Defaults()
	}
	return cfg
}
