// Package prompts registers prompt templates.
package prompts

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
	"github.com/mcp-quickstart/mcp-quickstart/internal/registry"
	"github.com/mcp-quickstart/mcp-quickstart/internal/schema"
)

const GreetingAndJokeName = "getGreetingAndJoke"

const (
	failurePrefix   = "I'm sorry, but I need a valid name to provide a greeting and a joke. "
	failureFallback = "Please provide the 'name' parameter."
	personaText     = "You are a friendly assistant. Your task is to greet the user by their name and then tell them a Chuck Norris joke. You should use the available tools and resources to accomplish this. I will now wait for your instruction to proceed with greeting and joke telling for the specified user."
)

// ErrInvalidArguments is returned to the client when arguments do not match
// the declared argument shape.
var ErrInvalidArguments = errors.New("invalid prompt arguments")

var (
	// ArgsShape is the argument shape advertised to clients.
	ArgsShape = schema.Object(
		schema.String("name").Describe("The name of the person to greet."),
	)
	// ParamsShape is the stricter check applied inside the handler.
	ParamsShape = schema.Object(
		schema.String("name").Min(1, "Name cannot be empty."),
	)
)

// GreetingAndJoke is the getGreetingAndJoke prompt.
type GreetingAndJoke struct {
	args *schema.Compiled
}

// NewGreetingAndJoke compiles the argument shape and returns the prompt.
func NewGreetingAndJoke() (*GreetingAndJoke, error) {
	args, err := ArgsShape.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s arguments: %w", GreetingAndJokeName, err)
	}
	return &GreetingAndJoke{args: args}, nil
}

func (p *GreetingAndJoke) Name() string        { return GreetingAndJokeName }
func (p *GreetingAndJoke) Kind() registry.Kind { return registry.KindPrompt }

func (p *GreetingAndJoke) Install(s *mcp.Server) {
	s.AddPrompt(&mcp.Prompt{
		Name:        GreetingAndJokeName,
		Description: "Greets a person by name and then tells a Chuck Norris joke.",
		Arguments:   promptArguments(ArgsShape),
	}, p.get)
}

func promptArguments(shape schema.Shape) []*mcp.PromptArgument {
	fields := shape.Fields()
	out := make([]*mcp.PromptArgument, 0, len(fields))
	for _, f := range fields {
		out = append(out, &mcp.PromptArgument{
			Name:        f.Name,
			Description: f.Description,
			Required:    !f.Optional,
		})
	}
	return out
}

func (p *GreetingAndJoke) get(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := make(map[string]any, len(req.Params.Arguments))
	for k, v := range req.Params.Arguments {
		args[k] = v
	}
	if _, err := p.ValidateArgs(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return p.Build(ctx, args), nil
}

// ValidateArgs applies the advertised argument shape.
func (p *GreetingAndJoke) ValidateArgs(args map[string]any) (map[string]any, error) {
	return p.args.Validate(args)
}

// ValidateParams applies the stricter params shape.
func (p *GreetingAndJoke) ValidateParams(args map[string]any) (string, *schema.ValidationError) {
	validated, err := ParamsShape.Validate(args)
	if err != nil {
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			verr = &schema.ValidationError{FormErrors: []string{err.Error()}}
		}
		return "", verr
	}
	return validated["name"].(string), nil
}

// Build produces the prompt messages for arguments that passed ValidateArgs.
// A params failure is reported as content, never as an error.
func (p *GreetingAndJoke) Build(ctx context.Context, args map[string]any) *mcp.GetPromptResult {
	name, verr := p.ValidateParams(args)
	if verr != nil {
		fields := logging.OperationFields(string(registry.KindPrompt), GreetingAndJokeName)
		fields = append(fields, "form_errors", verr.FormErrors, "field_errors", verr.FieldErrors)
		logging.ErrorwCtx(ctx, "parameter validation failed for prompt", fields...)
		return &mcp.GetPromptResult{
			Messages: []*mcp.PromptMessage{
				assistantMessage(FailureText(verr)),
			},
		}
	}
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			assistantMessage(personaText),
			userMessage(InstructionText(name)),
		},
	}
}

// FailureText explains a params failure, preferring the name field's own
// message.
func FailureText(verr *schema.ValidationError) string {
	detail := verr.Field("name")
	if detail == "" {
		detail = failureFallback
	}
	return failurePrefix + detail
}

// InstructionText is the user message sent for a valid name.
func InstructionText(name string) string {
	return fmt.Sprintf("Please greet %s and then tell a Chuck Norris joke.", name)
}

func assistantMessage(text string) *mcp.PromptMessage {
	return &mcp.PromptMessage{Role: "assistant", Content: &mcp.TextContent{Text: text}}
}

func userMessage(text string) *mcp.PromptMessage {
	return &mcp.PromptMessage{Role: "user", Content: &mcp.TextContent{Text: text}}
}
