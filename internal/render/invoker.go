package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Cyclone1070/geoview/internal/executor"
	"go.uber.org/zap"
)

// commandExecutor defines the interface for executing the renderer.
type commandExecutor interface {
	Run(ctx context.Context, cmd []string, dir string, env []string) (*executor.Result, error)
}

// dirMaker creates the output directory.
type dirMaker interface {
	MkdirAll(path string, perm os.FileMode) error
}

type osDirs struct{}

func (osDirs) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// Invoker runs one renderer subprocess per Render call. Calls share nothing
// but the executor, so renders for different requests run concurrently.
type Invoker struct {
	executor commandExecutor
	dirs     dirMaker
	logger   *zap.Logger
}

// NewInvoker creates a new Invoker with injected dependencies.
func NewInvoker(commandExecutor commandExecutor, logger *zap.Logger) *Invoker {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{executor: commandExecutor, dirs: osDirs{}, logger: logger}
}

// Render runs the renderer for req and returns the path of the generated image.
// Failures are *DimensionError, *FormatError or *RenderError.
// The image is never deleted here; the caller owns stale-image cleanup.
func (inv *Invoker) Render(ctx context.Context, req Request) (string, error) {
	if req.OutputDir == "" {
		return "", errors.New("output directory is required")
	}
	if err := inv.dirs.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", req.OutputDir, err)
	}

	outputPath := NewOutputPath(req.OutputDir)
	command := Command(req, outputPath)

	inv.logger.Debug("rendering",
		zap.String("source", req.SourcePath),
		zap.String("command", strings.Join(command, " ")))

	res, err := inv.executor.Run(ctx, command, "", nil)
	if err == nil && res != nil && res.ExitCode == 0 {
		inv.logger.Info("visualization generated",
			zap.String("source", req.SourcePath),
			zap.String("image", outputPath))
		return outputPath, nil
	}

	var stderr string
	exitCode := -1
	if res != nil {
		stderr = res.Stderr
		exitCode = res.ExitCode
	}
	if err == nil {
		err = fmt.Errorf("exit status %d", exitCode)
	}

	failure := classifyFailure(req, command, stderr, exitCode, err)
	inv.logger.Warn("render failed",
		zap.String("source", req.SourcePath),
		zap.Stringer("kind", KindOf(failure)),
		zap.Int("exit_code", exitCode),
		zap.String("stderr", stderr),
		zap.Error(err))
	return "", failure
}

func classifyFailure(req Request, command []string, stderr string, exitCode int, cause error) error {
	switch Classify(stderr) {
	case FailureDimension:
		return &DimensionError{Dimensions: req.Dimensions, Stderr: stderr, ExitCode: exitCode, Cause: cause}
	case FailureFormat:
		return &FormatError{SourcePath: req.SourcePath, Stderr: stderr, ExitCode: exitCode, Cause: cause}
	default:
		return &RenderError{Command: command, Stderr: stderr, ExitCode: exitCode, Cause: cause}
	}
}
