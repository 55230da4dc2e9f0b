// Package mcptest connects an in-process MCP client to a server holding a
// given set of operations.
package mcptest

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/registry"
)

// Connect installs ops on a fresh server and returns a client session bound
// to it over in-memory transports. Both sides are closed when t ends.
func Connect(t testing.TB, ops ...registry.Operation) *mcp.ClientSession {
	t.Helper()
	reg, err := registry.New(ops...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "mcptest", Version: "v0.0.0"}, nil)
	reg.Install(server)
	return ConnectServer(t, server)
}

// ConnectServer returns a client session bound to an already built server.
func ConnectServer(t testing.TB, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "mcptest-client", Version: "v0.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		_ = serverSession.Close()
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

// Text returns the text of a single TextContent, failing the test otherwise.
func Text(t testing.TB, content []mcp.Content) string {
	t.Helper()
	if len(content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(content))
	}
	text, ok := content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", content[0])
	}
	return text.Text
}
