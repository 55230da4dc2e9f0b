// Package tools registers the callable MCP tools: a pure arithmetic tool and
// a tool backed by an outbound HTTP call.
package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/registry"
	"github.com/mcp-quickstart/mcp-quickstart/internal/schema"
)

const (
	AddName        = "add"
	FetchJokesName = "fetch-chuck-jokes"
)

// AddShape is the input accepted by the add tool. The SDK validates
// arguments against it before the handler runs.
var AddShape = schema.Object(
	schema.Number("a").Describe("First addend."),
	schema.Number("b").Describe("Second addend."),
)

// FetchJokesShape takes no fields.
var FetchJokesShape = schema.Object()

type addInput struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

type addTool struct{}

// Add returns the add operation.
func Add() registry.Operation { return addTool{} }

func (addTool) Name() string        { return AddName }
func (addTool) Kind() registry.Kind { return registry.KindTool }

func (t addTool) Install(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        AddName,
		Description: "Adds two numbers",
		InputSchema: AddShape.JSONSchema(),
	}, t.handle)
}

func (addTool) handle(ctx context.Context, req *mcp.CallToolRequest, in addInput) (*mcp.CallToolResult, any, error) {
	return textResult(FormatNumber(in.A + in.B)), nil, nil
}

// FormatNumber renders n in its shortest decimal form: 5 rather than 5.0.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// JokeSource yields one joke per call.
type JokeSource interface {
	Random(ctx context.Context) (string, error)
}

type fetchJokesInput struct{}

type fetchJokesTool struct {
	source JokeSource
}

// FetchJokes returns the fetch-chuck-jokes operation backed by source.
func FetchJokes(source JokeSource) registry.Operation {
	return fetchJokesTool{source: source}
}

func (fetchJokesTool) Name() string        { return FetchJokesName }
func (fetchJokesTool) Kind() registry.Kind { return registry.KindTool }

func (t fetchJokesTool) Install(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        FetchJokesName,
		Description: "Fetches a random Chuck Norris joke",
		InputSchema: FetchJokesShape.JSONSchema(),
	}, t.handle)
}

// handle reports upstream failures as a tool error result so the caller sees
// what went wrong instead of a protocol-level fault.
func (t fetchJokesTool) handle(ctx context.Context, req *mcp.CallToolRequest, _ fetchJokesInput) (*mcp.CallToolResult, any, error) {
	joke, err := t.source.Random(ctx)
	if err != nil {
		fields := append(logging.OperationFields(string(registry.KindTool), FetchJokesName), "err", err)
		logging.WarnwCtx(ctx, "joke fetch failed", fields...)
		res := textResult(fmt.Sprintf("failed to fetch a joke: %v", err))
		res.IsError = true
		return res, nil, nil
	}
	return textResult(joke), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
