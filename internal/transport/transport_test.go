package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type echoArgs struct {
	Message string `json:"message"`
}

func echoServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "echo-server", Version: "1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "echo back messages"}, func(ctx context.Context, req *mcp.CallToolRequest, args echoArgs) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: args.Message}},
		}, nil, nil
	})
	return server
}

func callEcho(t *testing.T, session *mcp.ClientSession, msg string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"message": msg},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	if text.Text != msg {
		t.Fatalf("expected echo response %q, got %q", msg, text.Text)
	}
}

func TestWebSocketTransport(t *testing.T) {
	server := echoServer()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %v", err)
			return
		}
		go func() {
			session, err := server.Connect(context.Background(), NewWebSocket(conn), nil)
			if err != nil {
				t.Logf("server connect failed: %v", err)
				_ = conn.Close()
				return
			}
			_ = session.Wait()
		}()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "ws-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, NewWebSocket(conn), nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	callEcho(t, session, "hello")
}

func TestWebSocketSessionIDsAreUnique(t *testing.T) {
	a, _ := NewWebSocket(nil).Connect(context.Background())
	b, _ := NewWebSocket(nil).Connect(context.Background())
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Fatalf("expected distinct session ids, got %q and %q", a.SessionID(), b.SessionID())
	}
}
