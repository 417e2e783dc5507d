package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/executor"
	"github.com/Cyclone1070/geoview/internal/render"
	"github.com/Cyclone1070/geoview/internal/workspace"
	"github.com/spf13/cobra"
)

// Exit codes of the render command.
const (
	exitRenderFailed = 1
	exitDimension    = 2
	exitFormat       = 3
)

type renderFlags struct {
	cmap      string
	dims      string
	transpose bool
	vscale    float64
	out       string
}

func newRenderCmd(opts *options) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render one file and print the image path",
		Long: `Render one data file without the interactive UI and print the path of the
PNG written. Unset flags fall back to the configured defaults. Exits 2 when
the dimensions do not fit the data and 3 for an unsupported file format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(cmd, opts.cfg, flags, args[0])
			if err != nil {
				return err
			}

			invoker := render.NewInvoker(executor.NewOSCommandExecutor(opts.cfg, opts.logger), opts.logger.Named("render"))
			image, err := invoker.Render(cmd.Context(), req)
			if err != nil {
				return renderExit(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), image)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.cmap, "cmap", "", "colormap name")
	cmd.Flags().StringVar(&flags.dims, "dims", "", "data dimensions rows,cols[,depth]")
	cmd.Flags().BoolVar(&flags.transpose, "transpose", false, "transpose the data")
	cmd.Flags().Float64Var(&flags.vscale, "vscale", 0, "value scale")
	cmd.Flags().StringVar(&flags.out, "out", "", "output directory (default <workspace>/.geoview_temp)")
	return cmd
}

// buildRequest merges the changed flags over the configured defaults.
func buildRequest(cmd *cobra.Command, cfg *config.Config, flags *renderFlags, file string) (render.Request, error) {
	src, err := filepath.Abs(file)
	if err != nil {
		return render.Request{}, err
	}

	d := cfg.Defaults()
	req := render.Request{
		Renderer:   render.Renderer{Interpreter: d.PythonPath, Script: d.ScriptPath},
		SourcePath: src,
		Colormap:   d.Colormap,
		Dimensions: d.Dimensions,
		Transpose:  d.Transpose,
		VScale:     d.VScale,
		Width:      d.Width,
		Height:     d.Height,
	}

	if cmd.Flags().Changed("cmap") {
		req.Colormap = flags.cmap
	}
	if cmd.Flags().Changed("dims") {
		if !config.ValidDimensions(flags.dims) {
			return render.Request{}, fmt.Errorf("invalid --dims %q: want rows,columns[,depth]", flags.dims)
		}
		req.Dimensions = flags.dims
	}
	if cmd.Flags().Changed("transpose") {
		req.Transpose = flags.transpose
	}
	if cmd.Flags().Changed("vscale") {
		if !(flags.vscale > 0) {
			return render.Request{}, fmt.Errorf("invalid --vscale %v: must be positive", flags.vscale)
		}
		req.VScale = flags.vscale
	}

	if flags.out != "" {
		req.OutputDir, err = filepath.Abs(flags.out)
		if err != nil {
			return render.Request{}, err
		}
		return req, nil
	}
	resolver := workspace.NewResolver(cfg.Renderer.Workspace, cfg.Renderer.TempDir)
	root, err := resolver.Root(src)
	if err != nil {
		return render.Request{}, err
	}
	req.OutputDir = resolver.TempDir(root)
	return req, nil
}

// renderExit maps a render failure onto the command's exit codes.
func renderExit(err error) error {
	switch {
	case errors.Is(err, render.ErrDimension):
		return &exitError{code: exitDimension, err: fmt.Errorf("data dimensions do not match the file: %w", err)}
	case errors.Is(err, render.ErrFormat):
		return &exitError{code: exitFormat, err: fmt.Errorf("invalid or unsupported file format: %w", err)}
	default:
		return &exitError{code: exitRenderFailed, err: err}
	}
}
