package mcpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrNotConnected is returned by calls that need a session.
var ErrNotConnected = errors.New("mcp client not connected")

// Catalog is what a server advertises.
type Catalog struct {
	Tools             []*mcp.Tool
	Prompts           []*mcp.Prompt
	ResourceTemplates []*mcp.ResourceTemplate
}

// Describe lists the tools, prompts and resource templates of the connected
// server.
func (w *ClientWrapper) Describe(ctx context.Context) (Catalog, error) {
	var c Catalog
	sess := w.Session()
	if sess == nil {
		return c, ErrNotConnected
	}
	tools, err := sess.ListTools(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("list tools: %w", err)
	}
	c.Tools = tools.Tools
	prompts, err := sess.ListPrompts(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("list prompts: %w", err)
	}
	c.Prompts = prompts.Prompts
	templates, err := sess.ListResourceTemplates(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("list resource templates: %w", err)
	}
	c.ResourceTemplates = templates.ResourceTemplates
	return c, nil
}

// Write prints the catalog as a table.
func (c Catalog) Write(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tDESCRIPTION")
	for _, t := range c.Tools {
		fmt.Fprintf(tw, "tool\t%s\t%s\n", t.Name, t.Description)
	}
	for _, r := range c.ResourceTemplates {
		fmt.Fprintf(tw, "resource\t%s (%s)\t%s\n", r.Name, r.URITemplate, r.Description)
	}
	for _, p := range c.Prompts {
		fmt.Fprintf(tw, "prompt\t%s\t%s\n", p.Name, p.Description)
	}
	return tw.Flush()
}
