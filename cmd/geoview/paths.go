package main

import (
	"os"
	"path/filepath"
)

// resolveScript makes a relative renderer path absolute: first against the
// working directory, then against the directory of the geoview binary. The
// path is returned unchanged when neither exists.
func resolveScript(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, path)
		if fileExists(candidate) {
			return candidate
		}
	}

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidate := filepath.Join(filepath.Dir(exe), path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
