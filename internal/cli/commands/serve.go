package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/moviescope/internal/dataset"
	"github.com/leapstack-labs/moviescope/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start a local web server with the interactive movie dashboard.

The dashboard provides:
- The raw dataset with its column listing
- Bar, line and area charts of the top movies by popularity and vote count
- Bivariate and trivariate scatter plots over any numeric columns`,
		Example: `  # Start on the default port
  moviescope serve

  # Start on a custom port with a different file
  moviescope serve --port 3000 --data movies.csv

  # Start without auto-opening a browser
  moviescope serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: ui.port)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Mount hot reload routes and watch static assets")

	return cmd
}

// serveConfig resolves the server configuration from the loaded config and
// the command flags.
func serveConfig(cmd *cobra.Command, opts *ServeOptions, cctx *CommandContext) ui.Config {
	cfg := cctx.Cfg

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	dev := cfg.UI.Dev
	if cmd.Flags().Changed("dev") {
		dev = opts.Dev
	}

	cache := dataset.NewCache(cctx.Loader())

	return ui.Config{
		Cache:           cache,
		DataPath:        cfg.DataPath,
		Port:            port,
		Options:         cfg.DashboardOptions(),
		Dev:             dev,
		SessionSecret:   sessionSecret(cfg.UI.SessionSecret),
		ShutdownTimeout: cfg.UI.ShutdownTimeout,
		Logger:          cctx.Logger,
	}
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cctx := NewCommandContext(cmd)
	r := cctx.Renderer

	if err := cctx.Cfg.ValidateDataFile(); err != nil {
		r.Warning(err.Error())
	}

	serverCfg := serveConfig(cmd, opts, cctx)
	autoOpen := cctx.Cfg.UI.AutoOpen && !opts.NoBrowser
	serverCfg.OnListen = func(addr string) {
		r.Printf("Serving dashboard on %s\n", addr)
		r.Println("Press Ctrl+C to stop")
		if autoOpen {
			go openBrowser(addr)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := ui.NewServer(serverCfg).Serve(ctx); err != nil {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

// sessionSecret returns the configured secret, or a random one that lives as
// long as the process.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return uuid.NewString()
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
