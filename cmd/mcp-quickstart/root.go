package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcp-quickstart/mcp-quickstart/internal/config"
	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/server"
)

type serveOptions struct {
	logLevel  string
	transport string
	port      int
}

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}
	root := &cobra.Command{
		Use:   "mcp-quickstart",
		Short: "MCP Quick Start server",
		Long: `mcp-quickstart serves an add tool, a joke fetching tool, a greeting
resource template and a greeting prompt over the Model Context Protocol.

With no subcommand it serves on stdin/stdout.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	bindServeFlags(root, opts)

	serve := &cobra.Command{
		Use:          "serve",
		Short:        "Run the MCP server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	bindServeFlags(serve, opts)

	root.AddCommand(serve)
	root.AddCommand(newProbeCmd())
	return root
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (env LOG_LEVEL)")
	cmd.Flags().StringVar(&opts.transport, "transport", "", "stdio or websocket (env MCP_TRANSPORT)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "websocket listen port (env PORT)")
}

// resolveConfig loads the environment and lets explicitly set flags win.
func resolveConfig(cmd *cobra.Command, opts *serveOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport = opts.transport
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.port
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, _, err := server.New(cfg)
	if err != nil {
		return err
	}
	if cfg.Transport == config.TransportWebSocket {
		return server.ServeWebSocket(ctx, s, cfg.Addr())
	}
	return server.RunStdio(ctx, s)
}
