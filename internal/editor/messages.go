package editor

import "errors"

// Colormaps offered by the colormap picker. The renderer accepts any
// matplotlib name as well; these are the curated ones.
var Colormaps = []string{"viridis", "gray", "Petrel", "jet", "seismic", "stratum", "bwp", "plasma"}

// -- Sentinels --

var (
	ErrPromptCancelled = errors.New("prompt cancelled")
	ErrNoActiveEditor  = errors.New("no active GeoView editor")
	ErrUnknownDocument = errors.New("cannot find the corresponding document")
	ErrAlreadyOpening  = errors.New("document is already being opened")
	ErrInvalidInput    = errors.New("invalid input")
)

// User-facing messages.
const (
	msgNoActiveEditor   = "No active GeoView editor."
	msgUnknownDocument  = "Cannot find the corresponding document."
	msgNoDimensions     = "No data dimensions provided, operation cancelled."
	msgInvalidFormat    = "Invalid or unsupported file format."
	msgErrorPrefix      = "GeoView Error: "
	msgPickColormap     = "Please select a colormap (cmap) for visualization"
	msgDimensionsPrompt = "Please enter data dimensions (e.g., 512,512 or 512,512,512)"
	msgDimensionsHint   = "rows,columns[,depth]"
	msgDimensionsFormat = "Please enter a valid dimension format: rows,columns[,depth]"
	msgTransposed       = "Visualization data 2D: d.T, 3D: d[idx, :, :].T"
	msgNotTransposed    = "Visualization data 2D: d, 3D: d[:, :, idx]"
)
