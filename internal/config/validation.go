package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Visualization
	if c.Visualization.Colormap == "" {
		errs = append(errs, "visualization.cmap must not be empty")
	}
	if c.Visualization.Dimensions != "" && !ValidDimensions(c.Visualization.Dimensions) {
		errs = append(errs, "visualization.default_dimensions must match rows,cols[,depth]")
	}
	if c.Visualization.VScale <= 0 {
		errs = append(errs, "visualization.vscale must be > 0")
	}
	if c.Visualization.ImageSize.Width < 1 {
		errs = append(errs, "visualization.image_size.width must be >= 1")
	}
	if c.Visualization.ImageSize.Height < 1 {
		errs = append(errs, "visualization.image_size.height must be >= 1")
	}

	// Renderer
	if c.Renderer.PythonPath == "" {
		errs = append(errs, "renderer.python_path must not be empty")
	}
	if c.Renderer.ScriptPath == "" {
		errs = append(errs, "renderer.script_path must not be empty")
	}

	// Executor
	if c.Executor.MaxOutputBytes < 1 {
		errs = append(errs, "executor.max_output_bytes must be >= 1")
	}
	if c.Executor.BinarySampleSize < 0 {
		errs = append(errs, "executor.binary_sample_size must be >= 0")
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if c.Watch.DebounceMs < 0 {
		errs = append(errs, "watch.debounce_ms must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
