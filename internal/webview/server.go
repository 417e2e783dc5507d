// Package webview serves open documents to a browser: a page per panel
// showing the rendered image, kept current over a websocket.
package webview

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/Cyclone1070/geoview/internal/render"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP side of the display surface.
type Server struct {
	hub      *Hub
	commands Commands
	router   *gin.Engine
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer wires the routes. commands may be nil, in which case inbound
// websocket messages are ignored.
func NewServer(hub *Hub, commands Commands, logger *zap.Logger) *Server {
	if hub == nil {
		panic("hub is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		hub:      hub,
		commands: commands,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHost,
		},
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/", s.handleIndex)
	router.GET("/view/:id", s.handleView)
	router.GET("/image/:id/:name", s.handleImage)
	router.GET("/ws/:id", s.handleWebSocket)
	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("webview listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Panels": s.hub.Panels()})
}

func (s *Server) handleView(c *gin.Context) {
	panel, ok := s.hub.Panel(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "panel not found")
		return
	}
	c.HTML(http.StatusOK, "view.html", gin.H{
		"Panel":     panel,
		"ImageURL":  imageURL(panel),
		"Colormaps": editor.Colormaps,
	})
}

// handleImage serves the panel's current image and nothing else.
func (s *Server) handleImage(c *gin.Context) {
	panel, ok := s.hub.Panel(c.Param("id"))
	name := c.Param("name")
	if !ok || !render.IsOutputName(name) || panel.Image == "" || filepath.Base(panel.Image) != name {
		c.String(http.StatusNotFound, "image not found")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.File(filepath.Join(panel.ImageDir, name))
}

func (s *Server) handleWebSocket(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.hub.Panel(id); !ok {
		c.String(http.StatusNotFound, "panel not found")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{hub: s.hub, panelID: id, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.hub.attach(cl) {
		conn.Close()
		return
	}

	// Commands outlive the browser tab that sent them.
	ctx := context.WithoutCancel(c.Request.Context())
	cl.handler = func(data []byte) { s.handleInbound(ctx, id, data) }

	go cl.writePump()
	cl.readPump()
}

func (s *Server) handleInbound(ctx context.Context, panelID string, data []byte) {
	msg, err := DecodeInbound(data)
	if err != nil {
		s.logger.Warn("ignoring webview message", zap.String("panel", panelID), zap.Error(err))
		return
	}
	panel, ok := s.hub.Panel(panelID)
	if !ok || s.commands == nil {
		return
	}
	go func() {
		if err := Dispatch(ctx, s.commands, panel.URI, msg); err != nil {
			s.logger.Debug("webview command failed",
				zap.String("command", msg.Command), zap.String("uri", panel.URI), zap.Error(err))
		}
	}()
}

// sameHost accepts connections from pages served by this server.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origin = strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	return origin == r.Host
}
