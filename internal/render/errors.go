package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/geoview/internal/executor"
)

// -- Sentinels --

var (
	ErrDimension = errors.New("DimensionError")
	ErrFormat    = errors.New("FormatError")
)

// DimensionError is returned when the renderer cannot reshape the data into
// the supplied dimensions.
type DimensionError struct {
	Dimensions string
	Stderr     string
	ExitCode   int
	Cause      error
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("renderer rejected dimensions %q: %s", e.Dimensions, lastLine(e.Stderr))
}

func (e *DimensionError) Unwrap() error { return e.Cause }

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

func (e *DimensionError) Kind() FailureKind { return FailureDimension }

// FormatError is returned when the renderer reports an invalid or unsupported input.
type FormatError struct {
	SourcePath string
	Stderr     string
	ExitCode   int
	Cause      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid or unsupported file format %s: %s", e.SourcePath, lastLine(e.Stderr))
}

func (e *FormatError) Unwrap() error { return e.Cause }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *FormatError) Kind() FailureKind { return FailureFormat }

// RenderError is any other failure: a spawn error, or a non-zero exit whose
// stderr matches no known marker. It carries the raw cause.
type RenderError struct {
	Command  []string
	Stderr   string
	ExitCode int
	Cause    error
}

func (e *RenderError) Error() string {
	var cmdErr *executor.CommandError
	if errors.As(e.Cause, &cmdErr) && cmdErr.Spawn() {
		return fmt.Sprintf("renderer could not be started: %v", cmdErr.Cause)
	}
	if line := lastLine(e.Stderr); line != "" {
		return fmt.Sprintf("renderer failed (exit %d): %s", e.ExitCode, line)
	}
	return fmt.Sprintf("renderer failed: %v", e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

func (e *RenderError) Kind() FailureKind { return FailureUnclassified }

// KindOf returns the failure kind of err, FailureUnclassified for foreign errors.
func KindOf(err error) FailureKind {
	var k interface{ Kind() FailureKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return FailureUnclassified
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
