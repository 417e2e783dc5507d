// Package main provides the geoview command: open binary geophysical data
// files, render them with the external visualize.py script and show the
// images in a browser panel driven from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the global flags and what PersistentPreRunE builds from them.
type options struct {
	configPath string
	verbose    bool
	addr       string
	python     string
	script     string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "geoview [files...]",
		Short: "View binary geophysical data files as images",
		Long: `geoview renders binary geophysical data files (seismic volumes, grids)
through an external Python renderer and shows the result in a browser panel.
Colormap, transposition, dimensions and value scale are adjusted per file
from the terminal or from the panel itself.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/geoview/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "webview listen address (overrides server.addr)")
	rootCmd.PersistentFlags().StringVar(&opts.python, "python", "", "python interpreter (overrides renderer.python_path)")
	rootCmd.PersistentFlags().StringVar(&opts.script, "script", "", "renderer script (overrides renderer.script_path)")

	rootCmd.AddCommand(newRenderCmd(opts))
	return rootCmd
}

// init loads the configuration, applies flag overrides and builds the logger.
func (o *options) init() error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.python != "" {
		cfg.Renderer.PythonPath = o.python
	}
	if o.script != "" {
		cfg.Renderer.ScriptPath = o.script
	}
	cfg.Renderer.ScriptPath = resolveScript(cfg.Renderer.ScriptPath)
	o.cfg = cfg

	logger, err := logging.New(config.NewLoader().Dir(), o.verbose)
	if err != nil {
		return err
	}
	o.logger = logger
	o.logger.Debug("configuration loaded",
		zap.String("python", cfg.Renderer.PythonPath),
		zap.String("script", cfg.Renderer.ScriptPath),
		zap.String("addr", cfg.Server.Addr))
	return nil
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		cfg, err := config.NewLoader().LoadFile(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration.\n")
		cfg = config.DefaultConfig()
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		code := 1
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}
		os.Exit(code)
	}
}

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
