package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() Request {
	return Request{
		Renderer:   Renderer{Interpreter: "python", Script: "visualize.py"},
		SourcePath: "survey.bin",
		OutputDir:  "/tmp/out",
		Colormap:   "gray",
		Dimensions: "512,512",
		Transpose:  true,
		VScale:     1.0,
		Width:      800,
		Height:     600,
	}
}

func countPrefix(args []string, prefix string) int {
	n := 0
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			n++
		}
	}
	return n
}

func TestBuildArgs_Scenario(t *testing.T) {
	args := BuildArgs("visualize.py", "survey.bin", "/tmp/out/x.png", baseRequest())

	assert.Equal(t, []string{
		"visualize.py",
		"survey.bin",
		"/tmp/out/x.png",
		"--cmap=gray",
		"--width=800",
		"--height=600",
		"--dims=512,512",
		"--transpose",
		"--vscale=1",
	}, args)
}

func TestBuildArgs_Dimensions(t *testing.T) {
	t.Run("Valid dims passed verbatim once", func(t *testing.T) {
		for _, dims := range []string{"512,512", "10,10", "100,200,300"} {
			req := baseRequest()
			req.Dimensions = dims
			args := BuildArgs("s", "in", "out", req)
			assert.Equal(t, 1, countPrefix(args, "--dims="))
			assert.Contains(t, args, "--dims="+dims)
		}
	})

	t.Run("Empty dims omitted", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = ""
		args := BuildArgs("s", "in", "out", req)
		assert.Zero(t, countPrefix(args, "--dims"))
	})

	t.Run("Malformed dims passed through", func(t *testing.T) {
		req := baseRequest()
		req.Dimensions = "512x512"
		args := BuildArgs("s", "in", "out", req)
		assert.Contains(t, args, "--dims=512x512")
	})
}

func TestBuildArgs_Transpose(t *testing.T) {
	req := baseRequest()
	req.Transpose = false
	assert.Zero(t, countPrefix(BuildArgs("s", "in", "out", req), "--transpose"))

	req.Transpose = true
	args := BuildArgs("s", "in", "out", req)
	assert.Equal(t, 1, countPrefix(args, "--transpose"))
	assert.Contains(t, args, "--transpose")
}

func TestBuildArgs_VScaleFormatting(t *testing.T) {
	cases := map[float64]string{
		1.0:  "--vscale=1",
		0.5:  "--vscale=0.5",
		2.25: "--vscale=2.25",
	}
	for v, want := range cases {
		req := baseRequest()
		req.VScale = v
		args := BuildArgs("s", "in", "out", req)
		assert.Equal(t, want, args[len(args)-1])
	}
}

func TestCommand_PrependsInterpreter(t *testing.T) {
	cmd := Command(baseRequest(), "/tmp/out/x.png")
	require.NotEmpty(t, cmd)
	assert.Equal(t, "python", cmd[0])
	assert.Equal(t, "visualize.py", cmd[1])
}

func TestNewOutputPath(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		p := NewOutputPath("/tmp/out")
		assert.Equal(t, "/tmp/out", filepath.Dir(p))
		assert.True(t, IsOutputName(filepath.Base(p)), "unexpected name %s", p)
		assert.False(t, seen[p], "duplicate output path %s", p)
		seen[p] = true
	}
}

func TestIsOutputName(t *testing.T) {
	assert.False(t, IsOutputName("survey.bin"))
	assert.False(t, IsOutputName("geoview_abc.png"))
	assert.False(t, IsOutputName("geoview_../../etc/passwd00000000000000000.png"))
	assert.True(t, IsOutputName("geoview_0123456789abcdef0123456789abcdef.png"))
}
