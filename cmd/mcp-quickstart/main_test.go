package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcp-quickstart/mcp-quickstart/internal/config"
	"github.com/mcp-quickstart/mcp-quickstart/internal/server"
)

func TestResolveConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "stdio")
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "info")

	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("find serve: %v", err)
	}
	if err := serve.ParseFlags([]string{"--transport", "websocket", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := &serveOptions{transport: "websocket", logLevel: "debug"}

	cfg, err := resolveConfig(serve, opts)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Transport != config.TransportWebSocket || cfg.LogLevel != "debug" {
		t.Fatalf("flags should win: %+v", cfg)
	}
	if cfg.Port != 9100 {
		t.Fatalf("unset flag must keep env value, got port %d", cfg.Port)
	}
}

func TestResolveConfigRejectsBadTransport(t *testing.T) {
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--transport", "smoke-signals"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := resolveConfig(root, &serveOptions{transport: "smoke-signals"}); err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}

func TestProbeRequiresExactlyOneTarget(t *testing.T) {
	for _, args := range [][]string{
		{"probe"},
		{"probe", "--url", "ws://127.0.0.1:1/mcp/ws", "--", "some-binary"},
	} {
		root := newRootCmd()
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "either --url or a command") {
			t.Fatalf("args %v: expected target error, got %v", args, err)
		}
	}
}

func TestProbeWebSocket(t *testing.T) {
	cfg := config.Default()
	s, _, err := server.New(cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(server.Handler(ctx, s))
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"probe", "--url", srv.URL + server.WebSocketPath})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, want := range []string{"add", "fetch-chuck-jokes", "greeting://{name}", "getGreetingAndJoke"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("probe output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "probe"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}
