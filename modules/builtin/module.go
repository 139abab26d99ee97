// Package builtin ships the handlers compiled into every dirigent binary.
package builtin

import (
	"context"
	"errors"

	"github.com/dirigo/dirigent/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Echo is the handler for 'builtin.echo'. It returns the payload unchanged.
func Echo(ctx context.Context, payload any) (any, error) {
	return payload, nil
}

// OK is the handler for 'builtin.ok'. It always reports success.
func OK(ctx context.Context, payload any) (any, error) {
	return map[string]any{"status": "ok"}, nil
}

// ErrRejected is the error returned by the 'builtin.reject' handler.
var ErrRejected = errors.New("request rejected")

// Reject is the handler for 'builtin.reject'. It always fails; routes can
// bind it while their real handler is still under construction.
func Reject(ctx context.Context, payload any) (any, error) {
	return nil, ErrRejected
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *handlers.Registry) {
	r.Register("builtin.echo", Echo)
	r.Register("builtin.ok", OK)
	r.Register("builtin.reject", Reject)
}
