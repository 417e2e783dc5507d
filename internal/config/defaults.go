package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Visualization VisualizationConfig `json:"visualization" yaml:"visualization"`
	Renderer      RendererConfig      `json:"renderer" yaml:"renderer"`
	Executor      ExecutorConfig      `json:"executor" yaml:"executor"`
	Server        ServerConfig        `json:"server" yaml:"server"`
	Watch         WatchConfig         `json:"watch" yaml:"watch"`
	UI            UIConfig            `json:"ui" yaml:"ui"`
}

// VisualizationConfig holds the process-wide defaults that per-file settings fall back to.
type VisualizationConfig struct {
	Colormap   string    `json:"cmap" yaml:"cmap"`                             // Default: "gray"
	Dimensions string    `json:"default_dimensions" yaml:"default_dimensions"` // Default: "512,512"
	Transpose  bool      `json:"transpose" yaml:"transpose"`                   // Default: true
	VScale     float64   `json:"vscale" yaml:"vscale"`                         // Default: 1
	ImageSize  ImageSize `json:"image_size" yaml:"image_size"`
}

// ImageSize is the output image size in pixels passed to the renderer.
type ImageSize struct {
	Width  int `json:"width" yaml:"width"`   // Default: 800
	Height int `json:"height" yaml:"height"` // Default: 600
}

// RendererConfig locates the external renderer.
type RendererConfig struct {
	PythonPath string `json:"python_path" yaml:"python_path"` // Default: "python"
	ScriptPath string `json:"script_path" yaml:"script_path"` // Default: "python_scripts/visualize.py"
	// TempDir overrides <workspace>/.geoview_temp when non-empty.
	TempDir string `json:"temp_dir" yaml:"temp_dir"`
	// Workspace overrides workspace root detection when non-empty.
	Workspace string `json:"workspace" yaml:"workspace"`
}

type ExecutorConfig struct {
	MaxOutputBytes   int64 `json:"max_output_bytes" yaml:"max_output_bytes"`     // Default: 1MB
	BinarySampleSize int   `json:"binary_sample_size" yaml:"binary_sample_size"` // Default: 8000
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"` // Default: "127.0.0.1:8765"
}

type WatchConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`         // Default: true
	DebounceMs int  `json:"debounce_ms" yaml:"debounce_ms"` // Default: 300
}

type UIConfig struct {
	ColorPrimary string `json:"color_primary" yaml:"color_primary"` // Default: "63"
	ColorError   string `json:"color_error" yaml:"color_error"`     // Default: "196"
	ColorSuccess string `json:"color_success" yaml:"color_success"` // Default: "42"
}

// Defaults is an immutable snapshot of the visualization and renderer defaults.
// A single render request is reproducible from a Defaults value and the per-file settings.
type Defaults struct {
	Colormap   string
	Dimensions string
	Transpose  bool
	VScale     float64
	Width      int
	Height     int
	PythonPath string
	ScriptPath string
	TempDir    string
}

// Defaults returns a snapshot of the values read at every render call site.
func (c *Config) Defaults() Defaults {
	return Defaults{
		Colormap:   c.Visualization.Colormap,
		Dimensions: c.Visualization.Dimensions,
		Transpose:  c.Visualization.Transpose,
		VScale:     c.Visualization.VScale,
		Width:      c.Visualization.ImageSize.Width,
		Height:     c.Visualization.ImageSize.Height,
		PythonPath: c.Renderer.PythonPath,
		ScriptPath: c.Renderer.ScriptPath,
		TempDir:    c.Renderer.TempDir,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Visualization: VisualizationConfig{
			Colormap:   "gray",
			Dimensions: "512,512",
			Transpose:  true,
			VScale:     1,
			ImageSize: ImageSize{
				Width:  800,
				Height: 600,
			},
		},
		Renderer: RendererConfig{
			PythonPath: "python",
			ScriptPath: "python_scripts/visualize.py",
		},
		Executor: ExecutorConfig{
			MaxOutputBytes:   1024 * 1024,
			BinarySampleSize: 8000,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8765",
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 300,
		},
		UI: UIConfig{
			ColorPrimary: "63",
			ColorError:   "196",
			ColorSuccess: "42",
		},
	}
}
