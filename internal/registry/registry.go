// Package registry holds the set of operations served by the process. It is
// built once at startup and only read afterwards.
package registry

import (
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Kind distinguishes how an operation is exposed over MCP.
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
	KindPrompt   Kind = "prompt"
)

// ErrDuplicate is returned when two operations share a name.
var ErrDuplicate = errors.New("duplicate operation name")

// Operation is a named unit of work that knows how to install itself on an
// SDK server.
type Operation interface {
	Name() string
	Kind() Kind
	Install(s *mcp.Server)
}

// Registry is an immutable name → Operation mapping.
type Registry struct {
	byName map[string]Operation
	order  []string
}

// New builds a registry from ops. Names must be unique across all kinds.
func New(ops ...Operation) (*Registry, error) {
	r := &Registry{byName: make(map[string]Operation, len(ops))}
	for _, op := range ops {
		name := op.Name()
		if name == "" {
			return nil, fmt.Errorf("%s operation has no name", op.Kind())
		}
		if prev, ok := r.byName[name]; ok {
			return nil, fmt.Errorf("%w: %q registered as %s and %s", ErrDuplicate, name, prev.Kind(), op.Kind())
		}
		r.byName[name] = op
		r.order = append(r.order, name)
	}
	return r, nil
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Names returns operation names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Install registers every operation on s, in registration order.
func (r *Registry) Install(s *mcp.Server) {
	for _, name := range r.order {
		r.byName[name].Install(s)
	}
}
