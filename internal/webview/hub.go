package webview

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
	// Inbound messages are small JSON commands.
	maxMessageSize = 4096
)

// ErrUnknownPanel is returned for operations on a panel that is not shown.
var ErrUnknownPanel = errors.New("unknown panel")

// client is one browser tab attached to a panel.
type client struct {
	hub     *Hub
	panelID string
	conn    *websocket.Conn
	send    chan []byte
	handler func(data []byte)
}

type envelope struct {
	panelID string
	data    []byte
	// last closes the panel's clients after delivery.
	last bool
}

// Hub tracks shown panels and the websocket clients watching them.
// It implements editor.Display.
type Hub struct {
	panels     map[string]editor.Panel
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan envelope
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates a new hub. Run must be started for clients to be served.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		panels:     make(map[string]editor.Panel),
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles client registration and fan-out until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			if _, ok := h.panels[c.panelID]; !ok {
				close(c.send)
				h.mu.Unlock()
				continue
			}
			set, ok := h.clients[c.panelID]
			if !ok {
				set = make(map[*client]struct{})
				h.clients[c.panelID] = set
			}
			set[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("webview client connected", zap.String("panel", c.panelID))

		case c := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[c.panelID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
				}
				if len(set) == 0 {
					delete(h.clients, c.panelID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("webview client disconnected", zap.String("panel", c.panelID))

		case env := <-h.broadcast:
			h.mu.Lock()
			set := h.clients[env.panelID]
			for c := range set {
				select {
				case c.send <- env.data:
				default:
					// Slow client, drop it.
					close(c.send)
					delete(set, c)
				}
			}
			if env.last {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, env.panelID)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) queue(env envelope) {
	select {
	case h.broadcast <- env:
	default:
		h.logger.Warn("broadcast channel full, dropping message", zap.String("panel", env.panelID))
	}
}

// Show makes a panel available at /view/<id>.
func (h *Hub) Show(panel editor.Panel) error {
	if panel.ID == "" {
		return errors.New("panel id is required")
	}
	if panel.ImageDir == "" && panel.Image != "" {
		panel.ImageDir = filepath.Dir(panel.Image)
	}
	h.mu.Lock()
	h.panels[panel.ID] = panel
	h.mu.Unlock()
	return nil
}

// Update points the panel at a new image and tells its clients to reload it.
func (h *Hub) Update(panelID, imagePath string) error {
	h.mu.Lock()
	panel, ok := h.panels[panelID]
	if !ok {
		h.mu.Unlock()
		return ErrUnknownPanel
	}
	panel.Image = imagePath
	panel.ImageDir = filepath.Dir(imagePath)
	h.panels[panelID] = panel
	h.mu.Unlock()

	data, err := encodeOutbound(updateImage(panel))
	if err != nil {
		return err
	}
	h.queue(envelope{panelID: panelID, data: data})
	return nil
}

// Dispose removes the panel and disconnects its clients.
func (h *Hub) Dispose(panelID string) {
	h.mu.Lock()
	_, ok := h.panels[panelID]
	delete(h.panels, panelID)
	h.mu.Unlock()
	if !ok {
		return
	}
	data, err := encodeOutbound(outbound{Command: commandDispose})
	if err != nil {
		return
	}
	h.queue(envelope{panelID: panelID, data: data, last: true})
}

// Panel returns the shown panel with the given id.
func (h *Hub) Panel(id string) (editor.Panel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.panels[id]
	return p, ok
}

// Panels returns the shown panels sorted by title.
func (h *Hub) Panels() []editor.Panel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]editor.Panel, 0, len(h.panels))
	for _, p := range h.panels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title == out[j].Title {
			return out[i].ID < out[j].ID
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// clientCount returns the number of clients attached to a panel.
func (h *Hub) clientCount(panelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[panelID])
}

func (h *Hub) attach(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// readPump forwards inbound messages to the client's handler.
func (c *client) readPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket unexpected close", zap.Error(err))
			}
			return
		}
		if c.handler != nil {
			c.handler(data)
		}
	}
}

// writePump sends queued messages and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
