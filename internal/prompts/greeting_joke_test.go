package prompts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging/logtest"
	"github.com/mcp-quickstart/mcp-quickstart/internal/mcptest"
	"github.com/mcp-quickstart/mcp-quickstart/internal/schema"
)

func newPrompt(t *testing.T) *GreetingAndJoke {
	t.Helper()
	p, err := NewGreetingAndJoke()
	if err != nil {
		t.Fatalf("NewGreetingAndJoke: %v", err)
	}
	return p
}

func messageText(t *testing.T, m *mcp.PromptMessage) string {
	t.Helper()
	text, ok := m.Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", m.Content)
	}
	return text.Text
}

func TestGetPromptValidName(t *testing.T) {
	session := mcptest.Connect(t, newPrompt(t))

	for _, name := range []string{"Ada", "Grace Hopper"} {
		res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{
			Name:      GreetingAndJokeName,
			Arguments: map[string]string{"name": name},
		})
		if err != nil {
			t.Fatalf("GetPrompt(%q): %v", name, err)
		}
		if len(res.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(res.Messages))
		}
		if res.Messages[0].Role != "assistant" || res.Messages[1].Role != "user" {
			t.Fatalf("unexpected roles %q, %q", res.Messages[0].Role, res.Messages[1].Role)
		}
		if got := messageText(t, res.Messages[0]); got != personaText {
			t.Fatalf("unexpected persona text %q", got)
		}
		want := "Please greet " + name + " and then tell a Chuck Norris joke."
		if got := messageText(t, res.Messages[1]); got != want {
			t.Fatalf("unexpected instruction %q, want %q", got, want)
		}
	}
}

func TestGetPromptEmptyName(t *testing.T) {
	rec := logtest.Install(t)
	session := mcptest.Connect(t, newPrompt(t))

	res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{
		Name:      GreetingAndJokeName,
		Arguments: map[string]string{"name": ""},
	})
	if err != nil {
		t.Fatalf("validation failure must not be a protocol error: %v", err)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}
	if res.Messages[0].Role != "assistant" {
		t.Fatalf("unexpected role %q", res.Messages[0].Role)
	}
	want := "I'm sorry, but I need a valid name to provide a greeting and a joke. Name cannot be empty."
	if got := messageText(t, res.Messages[0]); got != want {
		t.Fatalf("unexpected text %q", got)
	}

	errs := rec.Level("error")
	if len(errs) != 1 {
		t.Fatalf("expected one diagnostic entry, got %d", len(errs))
	}
	fieldErrors, ok := errs[0].Fields["field_errors"].(map[string][]string)
	if !ok || len(fieldErrors["name"]) == 0 {
		t.Fatalf("diagnostic should carry field errors, got %v", errs[0].Fields)
	}
}

func TestGetPromptMissingNameRejected(t *testing.T) {
	p := newPrompt(t)
	_, err := p.get(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: GreetingAndJokeName}})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestValidatorsAreIndependent(t *testing.T) {
	p := newPrompt(t)
	args := map[string]any{"name": ""}

	if _, err := p.ValidateArgs(args); err != nil {
		t.Fatalf("empty name satisfies the advertised shape: %v", err)
	}
	if _, verr := p.ValidateParams(args); verr == nil {
		t.Fatal("empty name must fail the params check")
	}

	name, verr := p.ValidateParams(map[string]any{"name": "Ada"})
	if verr != nil || name != "Ada" {
		t.Fatalf("ValidateParams = %q, %v", name, verr)
	}
}

// Build skips the argument shape, so a missing name only reaches it when
// called directly; over the wire it is rejected first.
func TestBuildDirectMissingNameUsesFieldMessage(t *testing.T) {
	logtest.Install(t)
	res := newPrompt(t).Build(context.Background(), map[string]any{})
	if len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}
	if got := messageText(t, res.Messages[0]); !strings.HasSuffix(got, schema.MessageRequired) {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestFailureTextFallback(t *testing.T) {
	got := FailureText(&schema.ValidationError{FormErrors: []string{"bad"}})
	if got != failurePrefix+failureFallback {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestPromptArgumentsAdvertised(t *testing.T) {
	session := mcptest.Connect(t, newPrompt(t))
	res, err := session.ListPrompts(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(res.Prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(res.Prompts))
	}
	args := res.Prompts[0].Arguments
	if len(args) != 1 || args[0].Name != "name" || !args[0].Required {
		t.Fatalf("unexpected arguments %+v", args)
	}
	if args[0].Description != "The name of the person to greet." {
		t.Fatalf("unexpected description %q", args[0].Description)
	}
}
