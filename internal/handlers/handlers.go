package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Func is a compiled-in handler that route directives bind to by name. The
// registry never calls it; it is the payload routes carry into their tables.
type Func func(ctx context.Context, payload any) (any, error)

// Registry holds all the registered handlers.
type Registry struct {
	all map[string]Func
}

// New creates and initializes a new handler Registry instance.
func New() *Registry {
	return &Registry{
		all: make(map[string]Func),
	}
}

// Register registers a Go function under a handler name. Two registrations
// of one name is a programmer error.
func (r *Registry) Register(name string, fn Func) {
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.all[name] = fn
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.all[name]
	return fn, ok
}

// Names returns the registered handler names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.all))
	for name := range r.all {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.all) }

// Module is a package of handlers compiled into the binary.
type Module interface {
	Register(r *Registry)
}
