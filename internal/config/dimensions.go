package config

import (
	"regexp"
	"strings"
)

var dimensionsPattern = regexp.MustCompile(`^\d+\s*,\s*\d+(\s*,\s*\d+)?$`)

// ValidDimensions reports whether s is a "rows,cols" or "rows,cols,depth"
// shape of non-negative integers. Surrounding whitespace is ignored.
func ValidDimensions(s string) bool {
	return dimensionsPattern.MatchString(strings.TrimSpace(s))
}
