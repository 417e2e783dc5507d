package render

import "strings"

// FailureKind classifies a failed render.
type FailureKind int

const (
	FailureUnclassified FailureKind = iota
	FailureDimension
	FailureFormat
)

func (k FailureKind) String() string {
	switch k {
	case FailureDimension:
		return "dimension"
	case FailureFormat:
		return "format"
	default:
		return "unclassified"
	}
}

// The renderer has no structured exit contract; these substrings of its
// stderr are the whole of it. Dimension markers are checked first.
var (
	dimensionMarkers = []string{"cannot reshape array", "ValueError"}
	formatMarkers    = []string{"Invalid file format", "Exception"}
)

// Classify maps captured renderer stderr to a failure kind.
func Classify(stderr string) FailureKind {
	for _, m := range dimensionMarkers {
		if strings.Contains(stderr, m) {
			return FailureDimension
		}
	}
	for _, m := range formatMarkers {
		if strings.Contains(stderr, m) {
			return FailureFormat
		}
	}
	return FailureUnclassified
}
