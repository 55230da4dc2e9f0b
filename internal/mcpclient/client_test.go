package mcpclient

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestWebSocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:9001/mcp/ws": "ws://localhost:9001/mcp/ws",
		"https://example.com/mcp/ws":   "wss://example.com/mcp/ws",
		"ws://127.0.0.1:9001/mcp/ws":   "ws://127.0.0.1:9001/mcp/ws",
		"wss://example.com/mcp/ws?x=1": "wss://example.com/mcp/ws?x=1",
	}
	for in, want := range cases {
		got, err := WebSocketURL(in)
		if err != nil {
			t.Fatalf("WebSocketURL(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("WebSocketURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := WebSocketURL("ftp://example.com"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestDescribeWithoutSession(t *testing.T) {
	w := NewClientWrapper("test", "v0")
	if _, err := w.Describe(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close on an unconnected wrapper: %v", err)
	}
}

func TestConnectCommandRequiresCommand(t *testing.T) {
	w := NewClientWrapper("test", "v0")
	if err := w.ConnectCommand(context.Background(), "empty", "", nil, nil); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestCatalogWrite(t *testing.T) {
	c := Catalog{
		Tools:             []*mcp.Tool{{Name: "add", Description: "Adds two numbers"}},
		ResourceTemplates: []*mcp.ResourceTemplate{{Name: "greeting", URITemplate: "greeting://{name}"}},
		Prompts:           []*mcp.Prompt{{Name: "getGreetingAndJoke"}},
	}
	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"KIND", "add", "greeting (greeting://{name})", "getGreetingAndJoke"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
