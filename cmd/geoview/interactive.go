package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/Cyclone1070/geoview/internal/executor"
	"github.com/Cyclone1070/geoview/internal/orchestrator"
	"github.com/Cyclone1070/geoview/internal/render"
	"github.com/Cyclone1070/geoview/internal/settings"
	"github.com/Cyclone1070/geoview/internal/ui"
	uiservices "github.com/Cyclone1070/geoview/internal/ui/services"
	"github.com/Cyclone1070/geoview/internal/watch"
	"github.com/Cyclone1070/geoview/internal/webview"
	"github.com/Cyclone1070/geoview/internal/workspace"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runInteractive starts the webview server, the file watcher, the command
// loop and the TUI. It returns when the TUI exits or ctx is cancelled, after
// removing every temp directory it created.
func runInteractive(ctx context.Context, opts *options, files []string) error {
	cfg, logger := opts.cfg, opts.logger
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	channels := ui.NewUIChannels(cfg)
	tui := ui.NewUI(channels, uiservices.NewGlamourRenderer(), func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	})

	hub := webview.NewHub(logger.Named("webview"))
	resolver := workspace.NewResolver(cfg.Renderer.Workspace, cfg.Renderer.TempDir)
	invoker := render.NewInvoker(executor.NewOSCommandExecutor(cfg, logger), logger.Named("render"))
	defaults := cfg.Defaults()

	provider := editor.NewProvider(editor.Options{
		Renderer:  invoker,
		Settings:  settings.NewRegistry(),
		Workspace: resolver,
		Display:   hub,
		Prompter:  tui,
		Notifier:  tui,
		Defaults:  func() config.Defaults { return defaults },
		Logger:    logger.Named("editor"),
	})
	defer func() {
		if err := provider.Shutdown(); err != nil {
			logger.Warn("temp directory cleanup failed", zap.Error(err))
		}
	}()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	server := webview.NewServer(hub, provider, logger.Named("webview"))
	orch := orchestrator.New(provider, tui, "http://"+ln.Addr().String(), logger.Named("orchestrator"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return server.Serve(gctx, ln) })
	g.Go(func() error { return orch.Run(gctx) })

	if cfg.Watch.Enabled {
		watcher, err := watch.New(provider, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, logger.Named("watch"))
		if err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		} else {
			provider.Subscribe(watcher)
			g.Go(func() error { return watcher.Run(gctx) })
		}
	}

	g.Go(func() error {
		return queueFiles(gctx, tui, channels.CommandChan, files)
	})

	g.Go(func() error {
		// The TUI owns the process lifetime.
		defer cancel()
		return tui.Start(gctx)
	})

	return g.Wait()
}

// queueFiles opens the files given on the command line once the TUI is up.
func queueFiles(ctx context.Context, tui *ui.UI, commands chan<- ui.UICommand, files []string) error {
	select {
	case <-ctx.Done():
		return nil
	case <-tui.Ready():
	}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil
		case commands <- ui.UICommand{Type: ui.CommandOpen, Arg: f}:
		}
	}
	return nil
}
