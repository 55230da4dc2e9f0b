// Package resources registers the template-addressed read-only resources.
package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/registry"
)

const (
	GreetingName        = "greeting"
	GreetingURITemplate = "greeting://{name}"
)

// Greeting resolves greeting://{name} to "Hello, {name}!". It is only
// advertised as a template; there is nothing to list.
type Greeting struct {
	template *uritemplate.Template
}

// NewGreeting returns the greeting resource operation.
func NewGreeting() *Greeting {
	return &Greeting{template: uritemplate.MustNew(GreetingURITemplate)}
}

func (g *Greeting) Name() string        { return GreetingName }
func (g *Greeting) Kind() registry.Kind { return registry.KindResource }

func (g *Greeting) Install(s *mcp.Server) {
	s.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        GreetingName,
		URITemplate: GreetingURITemplate,
		Description: "A personalized greeting",
		MIMEType:    "text/plain",
	}, g.read)
}

// Match extracts the name placeholder from uri.
func (g *Greeting) Match(uri string) (string, bool) {
	values := g.template.Match(uri)
	if values == nil {
		return "", false
	}
	name := values.Get("name")
	if !name.Valid() {
		return "", false
	}
	// A simple expression splits its value on commas; rejoin to recover the
	// segment as written.
	if name.T == uritemplate.ValueTypeList {
		return strings.Join(name.List(), ","), true
	}
	return name.String(), true
}

// Text is the payload served for name.
func Text(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}

func (g *Greeting) read(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name, ok := g.Match(uri)
	if !ok {
		logging.DebugwCtx(ctx, "greeting uri did not match template", "uri", uri)
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     Text(name),
		}},
	}, nil
}
