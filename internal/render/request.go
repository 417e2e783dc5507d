// Package render invokes the external renderer that turns a geophysical data
// file into a PNG image, and classifies its failures.
package render

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Renderer locates the external program: an interpreter and the script it runs.
type Renderer struct {
	Interpreter string
	Script      string
}

// Request is everything one render needs. It is built fresh per invocation
// and never mutated afterwards.
type Request struct {
	Renderer   Renderer
	SourcePath string
	OutputDir  string
	Colormap   string
	// Dimensions is "rows,cols[,depth]". Empty omits --dims. It is passed
	// through unvalidated; a malformed value fails in the renderer.
	Dimensions string
	Transpose  bool
	VScale     float64
	Width      int
	Height     int
}

// BuildArgs assembles the renderer argv (without the interpreter).
func BuildArgs(script, sourcePath, outputPath string, req Request) []string {
	args := []string{
		script,
		sourcePath,
		outputPath,
		"--cmap=" + req.Colormap,
		"--width=" + strconv.Itoa(req.Width),
		"--height=" + strconv.Itoa(req.Height),
	}
	if req.Dimensions != "" {
		args = append(args, "--dims="+req.Dimensions)
	}
	if req.Transpose {
		args = append(args, "--transpose")
	}
	args = append(args, "--vscale="+strconv.FormatFloat(req.VScale, 'g', -1, 64))
	return args
}

// Command returns the full command line for req writing to outputPath.
func Command(req Request, outputPath string) []string {
	return append([]string{req.Renderer.Interpreter}, BuildArgs(req.Renderer.Script, req.SourcePath, outputPath, req)...)
}

// NewOutputPath returns a fresh geoview_<hex>.png path inside dir.
func NewOutputPath(dir string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return filepath.Join(dir, "geoview_"+id+".png")
}

// IsOutputName reports whether name looks like a file produced by NewOutputPath.
func IsOutputName(name string) bool {
	if !strings.HasPrefix(name, "geoview_") || !strings.HasSuffix(name, ".png") {
		return false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, "geoview_"), ".png")
	if len(id) != 32 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
