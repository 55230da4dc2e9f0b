// Package mcpclient connects to an MCP server over websocket or a spawned
// command and manages the client session lifecycle.
package mcpclient

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/transport"
)

// KeepaliveInterval is how often a connected session is pinged.
var KeepaliveInterval = 30 * time.Second

// TerminateDuration is how long Close waits for a spawned server to exit
// after its stdin is closed before signalling it.
var TerminateDuration = 2 * time.Second

// ClientWrapper owns one client session and the keepalive that pings it.
type ClientWrapper struct {
	client          *mcp.Client
	session         *mcp.ClientSession
	keepaliveCancel context.CancelFunc
	mu              sync.Mutex
}

// NewClientWrapper creates a wrapper identifying itself as name/version.
func NewClientWrapper(name, version string) *ClientWrapper {
	impl := &mcp.Implementation{Name: name, Version: version}
	return &ClientWrapper{client: mcp.NewClient(impl, nil)}
}

// Session returns the connected session, or nil.
func (w *ClientWrapper) Session() *mcp.ClientSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// WebSocketURL normalizes rawurl to a ws/wss URL. http and https map to
// their websocket schemes.
func WebSocketURL(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", errors.New("unsupported url scheme " + u.Scheme)
	}
	return u.String(), nil
}

// ConnectWebSocket dials the server's websocket endpoint and starts a session.
func (w *ClientWrapper) ConnectWebSocket(ctx context.Context, rawurl string) error {
	wsURL, err := WebSocketURL(rawurl)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	if err := w.connect(ctx, transport.NewWebSocket(conn)); err != nil {
		_ = conn.Close()
		return err
	}
	logging.Infow("mcp client connected", "url", wsURL)
	return nil
}

// ConnectCommand spawns a local MCP server process and connects via its
// stdin/stdout. Each line the process writes to stderr is logged. Closing
// the session closes stdin and reaps the process.
func (w *ClientWrapper) ConnectCommand(ctx context.Context, serverName, command string, args []string, env map[string]string) error {
	if command == "" {
		return errors.New("command is required")
	}
	cmd := exec.Command(command, args...)
	if len(env) > 0 {
		merged := os.Environ()
		for k, v := range env {
			merged = append(merged, k+"="+v)
		}
		cmd.Env = merged
	}
	cmd.Stderr = &stderrLog{server: serverName}

	t := &mcp.CommandTransport{Command: cmd, TerminateDuration: TerminateDuration}
	if err := w.connect(ctx, t); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
		return err
	}
	logging.Infow("mcp command server started", "server", serverName, "command", command, "args", strings.Join(args, " "), "pid", cmd.Process.Pid)
	return nil
}

// stderrLog turns a child's stderr stream into one debug entry per line.
type stderrLog struct {
	server string
	buf    []byte
}

func (l *stderrLog) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimRight(string(l.buf[:i]), "\r"); line != "" {
			logging.Debugw("mcp server stderr", "server", l.server, "line", line)
		}
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

func (w *ClientWrapper) connect(ctx context.Context, t mcp.Transport) error {
	sess, err := w.client.Connect(ctx, t, nil)
	if err != nil {
		return err
	}
	kaCtx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.session = sess
	if prev := w.keepaliveCancel; prev != nil {
		prev()
	}
	w.keepaliveCancel = cancel
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-kaCtx.Done():
				return
			case <-ticker.C:
				if err := sess.Ping(kaCtx, nil); err != nil {
					logging.Debugw("mcp keepalive ping failed", "err", err)
				}
			}
		}
	}()
	return nil
}

// Close ends the session and releases everything it owns.
func (w *ClientWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.keepaliveCancel != nil {
		w.keepaliveCancel()
		w.keepaliveCancel = nil
	}
	if w.session != nil {
		if err := w.session.Close(); err != nil {
			errs = append(errs, err)
		}
		w.session = nil
	}
	return errors.Join(errs...)
}
