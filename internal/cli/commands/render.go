package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/ui/features/dashboard/components"
)

// Snapshot formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Format string
	Out    string
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard to a static snapshot",
		Long: `Render the dashboard with its default widget selections, without starting
a server. HTML output is the full page; markdown output converts the dashboard
body and keeps the headings, notes and the first table page.`,
		Example: `  # Write the page to stdout
  moviescope render

  # Save a markdown summary
  moviescope render --format markdown --out dashboard.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", FormatHTML, "Snapshot format (html|markdown)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write to a file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatHTML, FormatMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	if opts.Format != FormatHTML && opts.Format != FormatMarkdown {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.Format, FormatHTML, FormatMarkdown)
	}

	cctx := NewCommandContext(cmd)
	ds, err := cctx.LoadDataset(cmd.Context())
	if err != nil {
		return err
	}

	view, err := dashview.Render(ds, dashview.DefaultState(ds), cctx.Cfg.DashboardOptions())
	if err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}

	snapshot, err := renderSnapshot(cmd.Context(), view, opts.Format)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if _, err := io.WriteString(w, snapshot); err != nil {
		return err
	}

	if opts.Out != "" {
		cctx.Logger.Info("snapshot written", "path", opts.Out, "format", opts.Format)
	}
	return nil
}

func renderSnapshot(ctx context.Context, view dashview.View, format string) (string, error) {
	var buf bytes.Buffer
	if format == FormatMarkdown {
		if err := components.Dashboard(view).Render(ctx, &buf); err != nil {
			return "", err
		}
		md, err := htmltomarkdown.ConvertString(buf.String())
		if err != nil {
			return "", fmt.Errorf("failed to convert to markdown: %w", err)
		}
		return md + "\n", nil
	}

	page := components.Page(dashview.PageTitle, false, view.State, components.Dashboard(view))
	if err := page.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
