// Package settings keeps the per-file visualization choices of open documents.
package settings

import (
	"sync"

	"github.com/Cyclone1070/geoview/internal/config"
)

// FileSettings holds the last choices made for one document.
// A nil field means "not chosen", so the configured default applies.
type FileSettings struct {
	Colormap   *string
	Dimensions *string
	Transpose  *bool
	VScale     *float64
}

func (s FileSettings) clone() FileSettings {
	out := FileSettings{}
	if s.Colormap != nil {
		v := *s.Colormap
		out.Colormap = &v
	}
	if s.Dimensions != nil {
		v := *s.Dimensions
		out.Dimensions = &v
	}
	if s.Transpose != nil {
		v := *s.Transpose
		out.Transpose = &v
	}
	if s.VScale != nil {
		v := *s.VScale
		out.VScale = &v
	}
	return out
}

// SetColormap, SetDimensions, SetTranspose and SetVScale are helpers for Update.
func (s *FileSettings) SetColormap(v string)   { s.Colormap = &v }
func (s *FileSettings) SetDimensions(v string) { s.Dimensions = &v }
func (s *FileSettings) SetTranspose(v bool)    { s.Transpose = &v }
func (s *FileSettings) SetVScale(v float64)    { s.VScale = &v }

// Resolved is the effective set of parameters for one render.
type Resolved struct {
	Colormap   string
	Dimensions string
	Transpose  bool
	VScale     float64
}

// Resolve merges s over defaults; file settings take precedence.
func (s FileSettings) Resolve(defaults config.Defaults) Resolved {
	r := Resolved{
		Colormap:   defaults.Colormap,
		Dimensions: defaults.Dimensions,
		Transpose:  defaults.Transpose,
		VScale:     defaults.VScale,
	}
	if s.Colormap != nil {
		r.Colormap = *s.Colormap
	}
	if s.Dimensions != nil {
		r.Dimensions = *s.Dimensions
	}
	if s.Transpose != nil {
		r.Transpose = *s.Transpose
	}
	if s.VScale != nil {
		r.VScale = *s.VScale
	}
	return r
}

// Registry maps document URIs to their FileSettings.
// Entries are created lazily by Update and removed when the document's panel is disposed.
// Concurrent updates to different fields of the same entry all land; updates
// to the same field are last-writer-wins.
type Registry struct {
	entries map[string]*FileSettings
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*FileSettings)}
}

// Get returns a copy of the settings for uri.
func (r *Registry) Get(uri string) (FileSettings, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.entries[uri]
	if !ok {
		return FileSettings{}, false
	}
	return s.clone(), true
}

// Update applies fn to the entry for uri under the registry lock, creating
// the entry if needed, and returns a copy of the result. fn must not block.
func (r *Registry) Update(uri string, fn func(*FileSettings)) FileSettings {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.entries[uri]
	if !ok {
		s = &FileSettings{}
		r.entries[uri] = s
	}
	fn(s)
	return s.clone()
}

// Remove evicts uri. Removing an unknown uri is a no-op.
func (r *Registry) Remove(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, uri)
}

// Resolve returns the effective parameters for uri. An unknown uri resolves
// to the defaults.
func (r *Registry) Resolve(uri string, defaults config.Defaults) Resolved {
	s, _ := r.Get(uri)
	return s.Resolve(defaults)
}

// Len returns the number of tracked documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
