// Package cli provides the command-line interface for moviescope.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/moviescope/internal/cli/commands"
	"github.com/leapstack-labs/moviescope/internal/cli/config"
	"github.com/leapstack-labs/moviescope/internal/cli/output"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moviescope",
		Short: "moviescope - Movie metadata dashboard",
		Long: `moviescope loads a movie metadata CSV file into DuckDB and serves an
interactive dashboard: the raw dataset, chart-type selectable charts of the
most popular movies, and 2-D and 3-D scatter plots over any numeric columns.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}
			ctx, err := withConfig(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}}\nBuilt %s from %s with Go and DuckDB\n", BuildDate, GitCommit))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./moviescope.yaml)")
	pf.String("data", "", "Path to the movie metadata CSV file")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputModes, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		commands.NewServeCommand(),
		commands.NewRenderCommand(),
		commands.NewColumnsCommand(),
		commands.NewTopCommand(),
		commands.NewInitCommand(),
		commands.NewVersionCommand(Version),
		NewCompletionCommand(),
	)

	return rootCmd
}

// withConfig loads the configuration for cmd and returns a context carrying
// it with the logger and renderer built from it.
func withConfig(cmd *cobra.Command) (context.Context, error) {
	cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if used := config.GetConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	logger.Debug("configuration loaded", "data_path", cfg.DataPath, "output", cfg.OutputFormat)

	renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	ctx := config.WithConfig(cmd.Context(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), logger)
	return output.WithRenderer(ctx, renderer), nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
