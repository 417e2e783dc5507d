package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

const jsonPath = "/home/user/.config/geoview/config.json"
const yamlPath = "/home/user/.config/geoview/config.yaml"

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "gray", cfg.Visualization.Colormap)
	assert.Equal(t, "512,512", cfg.Visualization.Dimensions)
	assert.True(t, cfg.Visualization.Transpose)
	assert.Equal(t, 800, cfg.Visualization.ImageSize.Width)
	assert.Equal(t, 600, cfg.Visualization.ImageSize.Height)
}

func TestLoad_FullOverride_AllValuesReplaced(t *testing.T) {
	configJSON := `{
		"visualization": {"cmap": "seismic", "default_dimensions": "100,200,300", "transpose": false, "vscale": 0.5,
			"image_size": {"width": 1024, "height": 768}},
		"renderer": {"python_path": "/usr/bin/python3", "script_path": "/opt/visualize.py", "temp_dir": "/tmp/gv"},
		"server": {"addr": "127.0.0.1:9000"},
		"watch": {"enabled": false, "debounce_ms": 50}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(configJSON)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "seismic", cfg.Visualization.Colormap)
	assert.Equal(t, "100,200,300", cfg.Visualization.Dimensions)
	assert.False(t, cfg.Visualization.Transpose)
	assert.Equal(t, 0.5, cfg.Visualization.VScale)
	assert.Equal(t, 1024, cfg.Visualization.ImageSize.Width)
	assert.Equal(t, "/usr/bin/python3", cfg.Renderer.PythonPath)
	assert.Equal(t, "/opt/visualize.py", cfg.Renderer.ScriptPath)
	assert.Equal(t, "/tmp/gv", cfg.Renderer.TempDir)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.Watch.Enabled)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	configJSON := `{"visualization": {"cmap": "jet"}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(configJSON)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "jet", cfg.Visualization.Colormap)       // Overridden
	assert.Equal(t, "512,512", cfg.Visualization.Dimensions) // Default
	assert.Equal(t, 600, cfg.Visualization.ImageSize.Height) // Default
	assert.Equal(t, "python", cfg.Renderer.PythonPath)       // Default
}

func TestLoad_YAMLFallback(t *testing.T) {
	configYAML := "visualization:\n  cmap: viridis\n  transpose: false\nrenderer:\n  python_path: python3\n"
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{yamlPath: []byte(configYAML)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "viridis", cfg.Visualization.Colormap)
	assert.False(t, cfg.Visualization.Transpose)
	assert.Equal(t, "python3", cfg.Renderer.PythonPath)
	assert.Equal(t, 800, cfg.Visualization.ImageSize.Width)
}

func TestLoad_JSONWinsOverYAML(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			jsonPath: []byte(`{"visualization": {"cmap": "jet"}}`),
			yamlPath: []byte("visualization:\n  cmap: viridis\n"),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "jet", cfg.Visualization.Colormap)
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	fs := &MockFileSystem{
		Files: map[string][]byte{"/etc/geoview.yml": []byte("server:\n  addr: 0.0.0.0:1\n")},
	}

	cfg, err := NewLoaderWithFS(fs).LoadFile("/etc/geoview.yml")

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1", cfg.Server.Addr)
}

func TestLoadFile_Missing_ReturnsNotExist(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{}}

	_, err := NewLoaderWithFS(fs).LoadFile("/nope.json")

	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_EmptyConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

// --- UNHAPPY PATH TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{invalid json`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDirErr: errors.New("homeless"),
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "gray", cfg.Visualization.Colormap)
}

func TestLoad_WrongJSONType_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`["not", "an", "object"]`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValues_Rejected(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{"visualization": {"vscale": -1}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "vscale")
}

// --- EDGE CASE TESTS ---

func TestLoad_ExplicitFalse_OverridesTrueDefault(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{"visualization": {"transpose": false}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.False(t, cfg.Visualization.Transpose)
}

func TestLoad_EmptyDimensions_Allowed(t *testing.T) {
	// No default dimensions means --dims is omitted from the renderer argv.
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{"visualization": {"default_dimensions": ""}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Visualization.Dimensions)
}

func TestLoad_UnknownFields_Ignored(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{jsonPath: []byte(`{"unknown": {"x": 1}, "visualization": {"cmap": "bwp"}}`)},
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "bwp", cfg.Visualization.Colormap)
}

func TestDefaults_Snapshot(t *testing.T) {
	cfg := DefaultConfig()
	snap := cfg.Defaults()

	cfg.Visualization.Colormap = "jet"

	assert.Equal(t, "gray", snap.Colormap, "snapshot must not follow later config writes")
	assert.Equal(t, 800, snap.Width)
	assert.Equal(t, 600, snap.Height)
	assert.Equal(t, "python", snap.PythonPath)
	assert.Equal(t, 1.0, snap.VScale)
}
