// Package editor is the GeoView document provider: it tracks open documents
// and their panels, turns user commands into renders, and reports failures.
package editor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Cyclone1070/geoview/internal/config"
	"github.com/Cyclone1070/geoview/internal/render"
	"github.com/Cyclone1070/geoview/internal/settings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document is one open data file.
type Document struct {
	URI           string
	Path          string
	WorkspacePath string
	PanelID       string
	Image         string

	seq        uint64
	generation uint64
}

// Title is the panel title.
func (d Document) Title() string {
	return filepath.Base(d.Path)
}

// URIFor returns the document URI of a file path.
func URIFor(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Provider owns the document and panel registries.
// All methods are safe for concurrent use; renders run outside the lock.
type Provider struct {
	renderer  renderer
	settings  settingsStore
	workspace workspaceResolver
	display   Display
	prompter  Prompter
	notifier  Notifier
	defaults  func() config.Defaults
	logger    *zap.Logger

	mu        sync.Mutex
	docs      map[string]*Document
	opening   map[string]struct{}
	active    string
	seq       uint64
	listeners []Listener
}

// Options bundles the collaborators of a Provider.
type Options struct {
	Renderer  renderer
	Settings  settingsStore
	Workspace workspaceResolver
	Display   Display
	Prompter  Prompter
	Notifier  Notifier
	// Defaults returns the configuration snapshot for the next render.
	Defaults func() config.Defaults
	Logger   *zap.Logger
}

// NewProvider creates a new Provider with injected dependencies.
func NewProvider(opts Options) *Provider {
	if opts.Renderer == nil {
		panic("renderer is required")
	}
	if opts.Settings == nil {
		panic("settings is required")
	}
	if opts.Workspace == nil {
		panic("workspace is required")
	}
	if opts.Display == nil {
		panic("display is required")
	}
	if opts.Prompter == nil {
		panic("prompter is required")
	}
	if opts.Notifier == nil {
		panic("notifier is required")
	}
	if opts.Defaults == nil {
		panic("defaults is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		renderer:  opts.Renderer,
		settings:  opts.Settings,
		workspace: opts.Workspace,
		display:   opts.Display,
		prompter:  opts.Prompter,
		notifier:  opts.Notifier,
		defaults:  opts.Defaults,
		logger:    logger,
		docs:      make(map[string]*Document),
		opening:   make(map[string]struct{}),
	}
}

// Subscribe registers l for open/close notifications.
func (p *Provider) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Open opens path, renders it and shows it on the display surface.
// A dimension failure prompts for new dimensions and retries exactly once.
// Opening an already open document makes it active and returns it.
func (p *Provider) Open(ctx context.Context, path string) (Document, error) {
	uri, err := URIFor(path)
	if err != nil {
		p.notifier.ShowError(msgErrorPrefix + err.Error())
		return Document{}, err
	}

	p.mu.Lock()
	if doc, ok := p.docs[uri]; ok {
		p.active = uri
		out := *doc
		p.mu.Unlock()
		return out, nil
	}
	if _, ok := p.opening[uri]; ok {
		p.mu.Unlock()
		return Document{}, ErrAlreadyOpening
	}
	p.opening[uri] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.opening, uri)
		p.mu.Unlock()
	}()

	doc, err := p.newDocument(uri, path)
	if err != nil {
		p.notifier.ShowError(msgErrorPrefix + err.Error())
		return Document{}, err
	}

	image, err := p.renderWithDimensionRetry(ctx, doc)
	if err != nil {
		// The settings entry lives only as long as the document.
		p.settings.Remove(uri)
		return Document{}, err
	}
	doc.Image = image

	panel := Panel{
		ID:       doc.PanelID,
		URI:      doc.URI,
		Title:    doc.Title(),
		ImageDir: filepath.Dir(image),
		Image:    image,
	}
	if err := p.display.Show(panel); err != nil {
		p.settings.Remove(uri)
		removeImage(image)
		p.notifier.ShowError(msgErrorPrefix + err.Error())
		return Document{}, err
	}

	p.mu.Lock()
	p.seq++
	doc.seq = p.seq
	p.docs[uri] = doc
	p.active = uri
	out := *doc
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	p.logger.Info("document opened", zap.String("uri", uri), zap.String("workspace", doc.WorkspacePath))
	for _, l := range listeners {
		l.DocumentOpened(out)
	}
	return out, nil
}

func (p *Provider) newDocument(uri, path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}
	root, err := p.workspace.Root(abs)
	if err != nil {
		return nil, err
	}
	return &Document{
		URI:           uri,
		Path:          abs,
		WorkspacePath: root,
		PanelID:       uuid.NewString(),
	}, nil
}

// renderWithDimensionRetry is the only retrying path: on a dimension failure
// it asks for a dimensions string, stores it for the document and tries again once.
func (p *Provider) renderWithDimensionRetry(ctx context.Context, doc *Document) (string, error) {
	image, err := p.renderer.Render(ctx, p.request(doc))
	if err == nil {
		return image, nil
	}
	if !errors.Is(err, render.ErrDimension) {
		p.notifyFailure(err)
		return "", err
	}

	dims, perr := p.prompter.InputBox(ctx, InputRequest{
		Prompt:      msgDimensionsPrompt,
		Placeholder: msgDimensionsHint,
		Validate:    validateDimensions,
	})
	if perr != nil || validateDimensions(dims) != "" {
		p.notifier.ShowError(msgNoDimensions)
		return "", err
	}

	dims = strings.TrimSpace(dims)
	p.settings.Update(doc.URI, func(s *settings.FileSettings) { s.SetDimensions(dims) })

	image, err = p.renderer.Render(ctx, p.request(doc))
	if err != nil {
		p.notifyFailure(err)
		return "", err
	}
	return image, nil
}

func (p *Provider) request(doc *Document) render.Request {
	d := p.defaults()
	r := p.settings.Resolve(doc.URI, d)
	return render.Request{
		Renderer:   render.Renderer{Interpreter: d.PythonPath, Script: d.ScriptPath},
		SourcePath: doc.Path,
		OutputDir:  p.workspace.TempDir(doc.WorkspacePath),
		Colormap:   r.Colormap,
		Dimensions: r.Dimensions,
		Transpose:  r.Transpose,
		VScale:     r.VScale,
		Width:      d.Width,
		Height:     d.Height,
	}
}

func (p *Provider) notifyFailure(err error) {
	switch render.KindOf(err) {
	case render.FailureFormat:
		p.notifier.ShowError(msgInvalidFormat)
	default:
		p.notifier.ShowError(msgErrorPrefix + err.Error())
	}
}

func validateDimensions(value string) string {
	if !config.ValidDimensions(value) {
		return msgDimensionsFormat
	}
	return ""
}

// Documents returns the open documents in the order they were opened.
func (p *Provider) Documents() []Document {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Document, 0, len(p.docs))
	for _, d := range p.docs {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Document returns the open document for uri.
func (p *Provider) Document(uri string) (Document, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.docs[uri]
	if !ok {
		return Document{}, false
	}
	return *d, true
}

// DocumentByPanel returns the open document shown in panel id.
func (p *Provider) DocumentByPanel(id string) (Document, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.docs {
		if d.PanelID == id {
			return *d, true
		}
	}
	return Document{}, false
}

// Active returns the URI of the active document, "" when none is open.
func (p *Provider) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// SetActive makes uri the target of commands issued without a URI.
func (p *Provider) SetActive(uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.docs[uri]; !ok {
		return ErrUnknownDocument
	}
	p.active = uri
	return nil
}

// Close disposes the document's panel, evicts its settings and deletes its image.
func (p *Provider) Close(uri string) error {
	p.mu.Lock()
	if uri == "" {
		uri = p.active
	}
	doc, ok := p.docs[uri]
	if !ok {
		p.mu.Unlock()
		if uri == "" {
			p.notifier.ShowError(msgNoActiveEditor)
			return ErrNoActiveEditor
		}
		return ErrUnknownDocument
	}
	delete(p.docs, uri)
	if p.active == uri {
		p.active = p.latestLocked()
	}
	out := *doc
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	p.display.Dispose(out.PanelID)
	p.settings.Remove(uri)
	removeImage(out.Image)

	p.logger.Info("document closed", zap.String("uri", uri))
	for _, l := range listeners {
		l.DocumentClosed(out)
	}
	return nil
}

func (p *Provider) latestLocked() string {
	var latest *Document
	for _, d := range p.docs {
		if latest == nil || d.seq > latest.seq {
			latest = d
		}
	}
	if latest == nil {
		return ""
	}
	return latest.URI
}

// Shutdown closes every document and removes every temp directory.
func (p *Provider) Shutdown() error {
	for _, d := range p.Documents() {
		_ = p.Close(d.URI)
	}
	return p.workspace.Cleanup()
}

func removeImage(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
