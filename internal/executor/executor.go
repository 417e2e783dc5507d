// Package executor runs external programs and captures their output.
package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/Cyclone1070/geoview/internal/config"
	"go.uber.org/zap"
)

// Result is what a finished process left behind. Stdout holds the head of
// the stream, Stderr the tail.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor runs programs with os/exec.
// It holds no per-call state and is safe for concurrent use.
type OSCommandExecutor struct {
	config config.ExecutorConfig
	logger *zap.Logger
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config, logger *zap.Logger) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSCommandExecutor{config: cfg.Executor, logger: logger}
}

// Run starts argv[0] with the remaining arguments and waits for it to exit.
// A process that could not be started yields a *CommandError and no Result.
// A non-zero exit returns both the Result and the *exec.ExitError.
// ctx only cancels at process shutdown; there is no per-call timeout.
func (f *OSCommandExecutor) Run(ctx context.Context, argv []string, dir string, env []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: argv[0], Cause: err, Stage: "pipe"}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: argv[0], Cause: err, Stage: "pipe"}
	}

	f.logger.Debug("exec", zap.String("command", strings.Join(argv, " ")), zap.String("dir", dir))

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: argv[0], Cause: err, Stage: "start"}
	}

	res := f.capture(stdout, stderr)
	err = cmd.Wait()
	res.ExitCode = exitCode(err)
	return res, err
}

// capture drains both pipes concurrently; it must finish before cmd.Wait.
func (f *OSCommandExecutor) capture(stdout, stderr io.Reader) *Result {
	maxBytes := int(f.config.MaxOutputBytes)
	out := newHeadCollector(maxBytes, f.config.BinarySampleSize)
	errOut := newTailCollector(maxBytes)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(out, stdout)
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(errOut, stderr)
	}()
	wg.Wait()

	return &Result{
		Stdout:    out.String(),
		Stderr:    errOut.String(),
		Truncated: out.Truncated() || errOut.Truncated(),
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
