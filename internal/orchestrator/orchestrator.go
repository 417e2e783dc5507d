// Package orchestrator runs the command loop between the TUI and the editor.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/Cyclone1070/geoview/internal/ui"
	"github.com/Cyclone1070/geoview/internal/ui/models"
	"github.com/Cyclone1070/geoview/internal/ui/services"
	"go.uber.org/zap"
)

// Editor is the document surface the commands drive.
type Editor interface {
	Open(ctx context.Context, path string) (editor.Document, error)
	ChangeColormap(ctx context.Context, uri string) error
	SetColormap(ctx context.Context, uri, name string) error
	ToggleTranspose(ctx context.Context, uri string) error
	ChangeDimensions(ctx context.Context, uri string) error
	SetDimensions(ctx context.Context, uri, dims string) error
	SetVScale(ctx context.Context, uri string, v float64) error
	Refresh(ctx context.Context, uri string) error
	Close(uri string) error
	Documents() []editor.Document
	Document(uri string) (editor.Document, bool)
	Active() string
	SetActive(uri string) error
}

// Orchestrator executes UI commands one at a time against the editor
type Orchestrator struct {
	editor  Editor
	ui      ui.UserInterface
	baseURL string
	logger  *zap.Logger
}

// New creates a new Orchestrator. baseURL is where the webview is served,
// e.g. http://127.0.0.1:8765.
func New(ed Editor, userInterface ui.UserInterface, baseURL string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		editor:  ed,
		ui:      userInterface,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Run executes commands until ctx is cancelled. Commands run sequentially;
// prompts they raise are answered through the UI while the loop waits.
func (o *Orchestrator) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-o.ui.Ready():
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-o.ui.Commands():
			if err := o.Execute(ctx, cmd); err != nil {
				o.logger.Debug("command failed", zap.String("command", cmd.Type), zap.Error(err))
			}
		}
	}
}

// Execute runs a single command against the active document.
func (o *Orchestrator) Execute(ctx context.Context, cmd ui.UICommand) error {
	switch cmd.Type {
	case ui.CommandOpen:
		return o.open(ctx, cmd.Arg)
	case ui.CommandList:
		o.list()
		return nil
	case ui.CommandUse:
		return o.use(cmd.Arg)
	case ui.CommandClose:
		err := o.editor.Close("")
		o.syncActive()
		if err == nil {
			o.ui.WriteStatus(models.PhaseReady, "")
		}
		return err
	}

	uri := o.editor.Active()
	switch cmd.Type {
	case ui.CommandCmap:
		return o.rendering(uri, func() error {
			if cmd.Arg == "" {
				return o.editor.ChangeColormap(ctx, uri)
			}
			return o.editor.SetColormap(ctx, uri, cmd.Arg)
		})
	case ui.CommandTranspose:
		return o.rendering(uri, func() error { return o.editor.ToggleTranspose(ctx, uri) })
	case ui.CommandDims:
		return o.rendering(uri, func() error {
			if cmd.Arg == "" {
				return o.editor.ChangeDimensions(ctx, uri)
			}
			return o.editor.SetDimensions(ctx, uri, cmd.Arg)
		})
	case ui.CommandVScale:
		v, err := strconv.ParseFloat(cmd.Arg, 64)
		if err != nil {
			o.ui.ShowError(fmt.Sprintf("GeoView Error: invalid vscale %q", cmd.Arg))
			return err
		}
		return o.rendering(uri, func() error { return o.editor.SetVScale(ctx, uri, v) })
	case ui.CommandRefresh:
		return o.rendering(uri, func() error { return o.editor.Refresh(ctx, uri) })
	default:
		err := fmt.Errorf("unknown command %q", cmd.Type)
		o.ui.ShowError(err.Error())
		return err
	}
}

// rendering wraps a command that re-renders uri with status updates.
// Failures are already reported to the user by the editor.
func (o *Orchestrator) rendering(uri string, fn func() error) error {
	title := "document"
	if doc, ok := o.editor.Document(uri); ok {
		title = doc.Title()
	}
	o.ui.WriteStatus(models.PhaseRendering, "Rendering "+title)
	if err := fn(); err != nil {
		return err
	}
	o.ui.WriteStatus(models.PhaseDone, title)
	return nil
}

func (o *Orchestrator) open(ctx context.Context, path string) error {
	path = expandHome(path)
	o.ui.WriteStatus(models.PhaseRendering, "Rendering "+path)

	doc, err := o.editor.Open(ctx, path)
	if errors.Is(err, editor.ErrAlreadyOpening) {
		o.ui.ShowInfo(path + " is already being opened.")
		return err
	}
	if err != nil {
		return err
	}

	o.ui.WriteStatus(models.PhaseDone, doc.Title())
	o.ui.ShowInfo(fmt.Sprintf("Opened %s: %s", doc.Title(), o.viewURL(doc)))
	o.syncActive()
	return nil
}

func (o *Orchestrator) list() {
	active := o.editor.Active()
	docs := o.editor.Documents()
	entries := make([]services.DocumentEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, services.DocumentEntry{
			Title:  d.Title(),
			Path:   d.Path,
			URL:    o.viewURL(d),
			Active: d.URI == active,
		})
	}
	o.ui.WriteMarkdown(services.FormatDocumentList(entries))
}

func (o *Orchestrator) use(arg string) error {
	docs := o.editor.Documents()
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(docs) {
		err := fmt.Errorf("no document %q, see /list", arg)
		o.ui.ShowError(err.Error())
		return err
	}
	if err := o.editor.SetActive(docs[n-1].URI); err != nil {
		o.ui.ShowError(err.Error())
		return err
	}
	o.syncActive()
	return nil
}

func (o *Orchestrator) syncActive() {
	doc, ok := o.editor.Document(o.editor.Active())
	if !ok {
		o.ui.SetActiveDocument("")
		return
	}
	o.ui.SetActiveDocument(doc.Title())
}

func (o *Orchestrator) viewURL(doc editor.Document) string {
	if o.baseURL == "" {
		return ""
	}
	return o.baseURL + "/view/" + doc.PanelID
}
