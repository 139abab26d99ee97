// Package print ships a diagnostic handler that writes its payload to the
// log. Routes bind it where a request should be traced rather than handled.
package print

import (
	"context"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Print is the handler registered under "print". It logs the payload through
// the context logger and produces nothing.
func Print(ctx context.Context, payload any) (any, error) {
	ctxlog.FromContext(ctx).Info("Printing payload.", "payload", payload)
	return nil, nil
}

// Register registers the handler with the app.
func (m *Module) Register(r *handlers.Registry) {
	r.Register("print", Print)
}
