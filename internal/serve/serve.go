// Package serve exposes the current presentation frame over HTTP so an
// audience can follow along in a browser or with curl.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Server publishes rendered frames to HTTP and WebSocket clients.
// The presenter calls Publish after every navigation; viewers receive
// the latest frame immediately on connect and every update afterwards.
type Server struct {
	addr string

	mu      sync.RWMutex
	frame   string
	clients map[*client]struct{}

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// client is a connected WebSocket viewer. Frames are delivered through
// a buffered channel; a slow viewer drops intermediate frames rather
// than stalling the presenter. The send channel is closed only while
// holding the server mutex, and only while the client is still in the
// clients map, so sends and closes never race.
type client struct {
	conn *websocket.Conn
	send chan string
}

// New creates a frame server listening on addr (for example ":8080").
func New(addr string) *Server {
	s := &Server{
		addr:    addr,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Viewers connect from anywhere on the presenter's network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/frame", s.handleFrame)
	r.Get("/ws", s.handleWS)

	return r
}

// Start begins listening and serving in the background. It returns the
// bound address, which differs from the configured one when the port
// was 0.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("frame server stopped", "error", err)
		}
	}()

	slog.Info("frame server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown stops the server and disconnects all viewers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// Publish replaces the current frame and fans it out to every
// connected viewer. The sends are non-blocking and happen under the
// mutex so a concurrent disconnect cannot close a channel mid-send.
func (s *Server) Publish(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	for c := range s.clients {
		select {
		case c.send <- frame:
		default:
			// Channel full: the viewer will pick up a later frame.
		}
	}
}

// Frame returns the most recently published frame.
func (s *Server) Frame() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "declaim follow-along server")
	fmt.Fprintln(w, "  GET /frame  current frame as plain text")
	fmt.Fprintln(w, "  GET /ws     frame updates over WebSocket")
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame := s.Frame()
	if frame == "" {
		http.Error(w, "no frame published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, frame)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan string, 8),
	}
	s.register(c)

	go s.writeLoop(c)
	go s.readLoop(c)
}

// register adds a viewer and queues the current frame for it. The
// channel is fresh and buffered, so the queued send cannot block.
func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.frame != "" {
		c.send <- s.frame
	}
	s.mu.Unlock()
}

// writeLoop delivers frames to one viewer until its channel closes.
func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			s.drop(c)
			return
		}
	}
}

// readLoop drains viewer messages so pings and close frames are
// processed, and unregisters the client when the connection ends.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.drop(c)
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

// NormalizeAddr turns a bare port like "8080" into ":8080" and leaves
// host:port addresses untouched.
func NormalizeAddr(addr string) string {
	if addr == "" {
		return addr
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
