package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/mcpclient"
	"github.com/mcp-quickstart/mcp-quickstart/internal/server"
)

type probeOptions struct {
	url      string
	timeout  time.Duration
	logLevel string
}

func newProbeCmd() *cobra.Command {
	opts := &probeOptions{}
	cmd := &cobra.Command{
		Use:   "probe [--url ws://host:port/mcp/ws | -- command [args...]]",
		Short: "Connect to an MCP server and list what it offers",
		Long: `probe connects to an MCP server, either over websocket (--url) or by
spawning a command that speaks MCP on stdio, and prints its tools, resource
templates and prompts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "", "websocket url of a running server")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "connect and list timeout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	return cmd
}

func runProbe(cmd *cobra.Command, opts *probeOptions, args []string) error {
	if (opts.url == "") == (len(args) == 0) {
		return errors.New("give either --url or a command to spawn")
	}
	logging.Init(opts.logLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	client := mcpclient.NewClientWrapper("mcp-quickstart-probe", server.Version)
	defer client.Close()

	var err error
	if opts.url != "" {
		err = client.ConnectWebSocket(ctx, opts.url)
	} else {
		err = client.ConnectCommand(ctx, args[0], args[0], args[1:], nil)
	}
	if err != nil {
		return err
	}

	catalog, err := client.Describe(ctx)
	if err != nil {
		return err
	}
	return catalog.Write(cmd.OutOrStdout())
}
