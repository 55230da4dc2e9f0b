// Package server assembles the MCP Quick Start server from its operations
// and runs it over stdio or websocket.
package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/config"
	"github.com/mcp-quickstart/mcp-quickstart/internal/jokes"
	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/prompts"
	"github.com/mcp-quickstart/mcp-quickstart/internal/registry"
	"github.com/mcp-quickstart/mcp-quickstart/internal/resources"
	"github.com/mcp-quickstart/mcp-quickstart/internal/tools"
)

// Server identity reported during initialization.
const (
	Name    = "MCP Quick Start"
	Version = "1.0.0"
)

// Operations returns every operation the server exposes.
func Operations(cfg config.Config) ([]registry.Operation, error) {
	greetingAndJoke, err := prompts.NewGreetingAndJoke()
	if err != nil {
		return nil, err
	}
	return []registry.Operation{
		tools.Add(),
		tools.FetchJokes(jokes.NewClient(cfg.JokesURL, cfg.JokesTimeout)),
		resources.NewGreeting(),
		greetingAndJoke,
	}, nil
}

// New builds the registry for cfg and an SDK server holding it.
func New(cfg config.Config) (*mcp.Server, *registry.Registry, error) {
	ops, err := Operations(cfg)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.New(ops...)
	if err != nil {
		return nil, nil, fmt.Errorf("build registry: %w", err)
	}
	return NewWithRegistry(reg), reg, nil
}

// NewWithRegistry returns an SDK server with every operation in reg
// installed and request logging enabled.
func NewWithRegistry(reg *registry.Registry) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
	s.AddReceivingMiddleware(requestLogging)
	reg.Install(s)
	logging.Debugw("operations registered", "operations", reg.Names())
	return s
}

// RunStdio serves s on stdin/stdout until the peer disconnects or ctx ends.
func RunStdio(ctx context.Context, s *mcp.Server) error {
	logging.Infow("mcp server running on stdio", "server", Name, "version", Version)
	if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}
