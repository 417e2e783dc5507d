package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/geoview/internal/settings"
	"go.uber.org/zap"
)

// target resolves uri to an open document. An empty uri means the active one.
func (p *Provider) target(uri string) (Document, error) {
	p.mu.Lock()
	if uri == "" {
		uri = p.active
	}
	doc, ok := p.docs[uri]
	p.mu.Unlock()

	switch {
	case ok:
		return *doc, nil
	case uri == "":
		p.notifier.ShowError(msgNoActiveEditor)
		return Document{}, ErrNoActiveEditor
	default:
		p.notifier.ShowError(msgUnknownDocument)
		return Document{}, ErrUnknownDocument
	}
}

// ChangeColormap asks for a colormap and re-renders with it.
// Dismissing the picker leaves everything as it was.
func (p *Provider) ChangeColormap(ctx context.Context, uri string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	choice, err := p.prompter.QuickPick(ctx, msgPickColormap, Colormaps)
	if errors.Is(err, ErrPromptCancelled) || (err == nil && choice == "") {
		return nil
	}
	if err != nil {
		return err
	}
	return p.setColormap(ctx, doc, choice)
}

// SetColormap stores name for the document and re-renders.
func (p *Provider) SetColormap(ctx context.Context, uri, name string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty colormap", ErrInvalidInput)
	}
	return p.setColormap(ctx, doc, name)
}

func (p *Provider) setColormap(ctx context.Context, doc Document, name string) error {
	p.settings.Update(doc.URI, func(s *settings.FileSettings) { s.SetColormap(name) })
	return p.rerender(ctx, doc.URI)
}

// ToggleTranspose flips the effective transpose flag and re-renders.
func (p *Provider) ToggleTranspose(ctx context.Context, uri string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	fallback := p.defaults().Transpose
	var next bool
	p.settings.Update(doc.URI, func(s *settings.FileSettings) {
		current := fallback
		if s.Transpose != nil {
			current = *s.Transpose
		}
		next = !current
		s.SetTranspose(next)
	})
	if err := p.rerender(ctx, doc.URI); err != nil {
		return err
	}
	if next {
		p.notifier.ShowInfo(msgTransposed)
	} else {
		p.notifier.ShowInfo(msgNotTransposed)
	}
	return nil
}

// ChangeDimensions prompts for a dimensions string and re-renders.
func (p *Provider) ChangeDimensions(ctx context.Context, uri string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	dims, err := p.prompter.InputBox(ctx, InputRequest{
		Prompt:      msgDimensionsPrompt,
		Placeholder: msgDimensionsHint,
		Validate:    validateDimensions,
	})
	if errors.Is(err, ErrPromptCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return p.setDimensions(ctx, doc, dims)
}

// SetDimensions stores dims for the document and re-renders.
func (p *Provider) SetDimensions(ctx context.Context, uri, dims string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	return p.setDimensions(ctx, doc, dims)
}

func (p *Provider) setDimensions(ctx context.Context, doc Document, dims string) error {
	if msg := validateDimensions(dims); msg != "" {
		p.notifier.ShowError(msg)
		return fmt.Errorf("%w: dimensions %q", ErrInvalidInput, dims)
	}
	dims = strings.TrimSpace(dims)
	p.settings.Update(doc.URI, func(s *settings.FileSettings) { s.SetDimensions(dims) })
	return p.rerender(ctx, doc.URI)
}

// SetVScale stores the value scale for the document and re-renders.
func (p *Provider) SetVScale(ctx context.Context, uri string, v float64) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	if !(v > 0) {
		p.notifier.ShowError(fmt.Sprintf("%sinvalid vscale %v, must be positive", msgErrorPrefix, v))
		return fmt.Errorf("%w: vscale %v", ErrInvalidInput, v)
	}
	p.settings.Update(doc.URI, func(s *settings.FileSettings) { s.SetVScale(v) })
	return p.rerender(ctx, doc.URI)
}

// Refresh re-renders the document with its current settings.
func (p *Provider) Refresh(ctx context.Context, uri string) error {
	doc, err := p.target(uri)
	if err != nil {
		return err
	}
	return p.rerender(ctx, doc.URI)
}

// rerender renders the document again and swaps the panel image.
// A result that lands after a newer render was started is dropped and its
// image deleted, so the panel always ends on the latest request.
func (p *Provider) rerender(ctx context.Context, uri string) error {
	p.mu.Lock()
	doc, ok := p.docs[uri]
	if !ok {
		p.mu.Unlock()
		p.notifier.ShowError(msgUnknownDocument)
		return ErrUnknownDocument
	}
	doc.generation++
	gen := doc.generation
	snapshot := *doc
	p.mu.Unlock()

	image, err := p.renderer.Render(ctx, p.request(&snapshot))

	p.mu.Lock()
	current, ok := p.docs[uri]
	stale := !ok || current.generation != gen
	if stale {
		p.mu.Unlock()
		removeImage(image)
		p.logger.Debug("discarded stale render", zap.String("uri", uri), zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		p.mu.Unlock()
		p.notifyFailure(err)
		return err
	}
	previous := current.Image
	current.Image = image
	panelID := current.PanelID
	updateErr := p.display.Update(panelID, image)
	p.mu.Unlock()

	if previous != image {
		removeImage(previous)
	}
	if updateErr != nil {
		p.logger.Warn("display update failed", zap.String("panel", panelID), zap.Error(updateErr))
	}
	return nil
}
