package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/transport"
)

// WebSocketPath is where MCP sessions are accepted.
const WebSocketPath = "/mcp/ws"

// wsHandler accepts websocket MCP sessions that live no longer than ctx.
type wsHandler struct {
	ctx      context.Context
	s        *mcp.Server
	mux      *http.ServeMux
	upgrader websocket.Upgrader
	sessions sync.WaitGroup
}

// Handler exposes /health and a websocket endpoint at WebSocketPath. Each
// websocket becomes one MCP session on s, closed when ctx is done.
func Handler(ctx context.Context, s *mcp.Server) http.Handler {
	return newWSHandler(ctx, s)
}

func newWSHandler(ctx context.Context, s *mcp.Server) *wsHandler {
	h := &wsHandler{ctx: ctx, s: s, mux: http.NewServeMux()}
	h.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	h.mux.HandleFunc(WebSocketPath, h.upgrade)
	return h
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *wsHandler) upgrade(w http.ResponseWriter, r *http.Request) {
	// Counted before the hijack so Shutdown cannot return ahead of it.
	h.sessions.Add(1)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.sessions.Done()
		logging.Warnw("ws upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	go func() {
		defer h.sessions.Done()
		h.serveConn(conn, r.RemoteAddr)
	}()
}

func (h *wsHandler) serveConn(conn *websocket.Conn, remote string) {
	session, err := h.s.Connect(h.ctx, transport.NewWebSocket(conn), nil)
	if err != nil {
		logging.Warnw("mcp server connect error", "err", err, "remote", remote)
		_ = conn.Close()
		return
	}
	// Hijacked connections outlive http.Server.Shutdown.
	stop := context.AfterFunc(h.ctx, func() { _ = session.Close() })
	defer stop()

	logging.Infow("mcp session started", "session.id", session.ID(), "remote", remote)
	if err := session.Wait(); err != nil && h.ctx.Err() == nil {
		logging.Infow("mcp session ended with error", "session.id", session.ID(), "err", err)
		return
	}
	logging.Infow("mcp session ended", "session.id", session.ID())
}

// wait blocks until every accepted session has ended.
func (h *wsHandler) wait() { h.sessions.Wait() }

// ServeWebSocket listens on addr until ctx is cancelled.
func ServeWebSocket(ctx context.Context, s *mcp.Server, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, s, ln)
}

// Serve accepts HTTP and websocket MCP sessions on ln until ctx is
// cancelled, then stops the listener and closes every open session.
func Serve(ctx context.Context, s *mcp.Server, ln net.Listener) error {
	h := newWSHandler(ctx, s)
	srv := &http.Server{Handler: h}
	errCh := make(chan error, 1)
	go func() {
		logging.Infow("mcp server listening", "addr", ln.Addr().String(), "path", WebSocketPath)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		h.wait()
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
