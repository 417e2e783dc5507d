package webview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/mitchellh/mapstructure"
)

// Outbound commands understood by the view page.
const (
	commandUpdateImage = "updateImage"
	commandDispose     = "dispose"
)

// Inbound commands sent by the view page.
const (
	CommandRefresh    = "refresh"
	CommandChangeCmap = "changeCmap"
	CommandTranspose  = "transpose"
	CommandSetDims    = "setDims"
	CommandSetVScale  = "setVScale"
	CommandClose      = "close"
)

type outbound struct {
	Command  string `json:"command"`
	ImageURI string `json:"imageUri,omitempty"`
}

func encodeOutbound(msg outbound) ([]byte, error) {
	return json.Marshal(msg)
}

func updateImage(panel editor.Panel) outbound {
	return outbound{Command: commandUpdateImage, ImageURI: imageURL(panel)}
}

// imageURL is the route the panel's current image is served from.
func imageURL(panel editor.Panel) string {
	if panel.Image == "" {
		return ""
	}
	return fmt.Sprintf("/image/%s/%s", url.PathEscape(panel.ID), url.PathEscape(filepath.Base(panel.Image)))
}

// Inbound is a command sent from a view page.
type Inbound struct {
	Command string  `mapstructure:"command"`
	Cmap    string  `mapstructure:"cmap"`
	Dims    string  `mapstructure:"dims"`
	VScale  float64 `mapstructure:"vscale"`
}

// DecodeInbound parses a JSON websocket frame into an Inbound message.
// Numbers sent as strings are accepted.
func DecodeInbound(data []byte) (Inbound, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Inbound{}, fmt.Errorf("invalid message: %w", err)
	}

	var msg Inbound
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &msg,
	})
	if err != nil {
		return Inbound{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Inbound{}, fmt.Errorf("invalid message: %w", err)
	}

	switch msg.Command {
	case CommandRefresh, CommandTranspose, CommandClose:
	case CommandChangeCmap:
		if msg.Cmap == "" {
			return Inbound{}, fmt.Errorf("invalid message: %s requires cmap", msg.Command)
		}
	case CommandSetDims:
		if msg.Dims == "" {
			return Inbound{}, fmt.Errorf("invalid message: %s requires dims", msg.Command)
		}
	case CommandSetVScale:
		if msg.VScale <= 0 {
			return Inbound{}, fmt.Errorf("invalid message: %s requires a positive vscale", msg.Command)
		}
	default:
		return Inbound{}, fmt.Errorf("invalid message: unknown command %q", msg.Command)
	}
	return msg, nil
}

// Commands is the editor surface a view page can drive.
type Commands interface {
	Refresh(ctx context.Context, uri string) error
	SetColormap(ctx context.Context, uri, name string) error
	ToggleTranspose(ctx context.Context, uri string) error
	SetDimensions(ctx context.Context, uri, dims string) error
	SetVScale(ctx context.Context, uri string, v float64) error
	Close(uri string) error
}

// Dispatch runs msg against the document uri.
func Dispatch(ctx context.Context, commands Commands, uri string, msg Inbound) error {
	switch msg.Command {
	case CommandRefresh:
		return commands.Refresh(ctx, uri)
	case CommandChangeCmap:
		return commands.SetColormap(ctx, uri, msg.Cmap)
	case CommandTranspose:
		return commands.ToggleTranspose(ctx, uri)
	case CommandSetDims:
		return commands.SetDimensions(ctx, uri, msg.Dims)
	case CommandSetVScale:
		return commands.SetVScale(ctx, uri, msg.VScale)
	case CommandClose:
		return commands.Close(uri)
	default:
		return fmt.Errorf("unknown command %q", msg.Command)
	}
}
