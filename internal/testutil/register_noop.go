package testutil

import (
	"context"

	"github.com/dirigo/dirigent/internal/handlers"
)

// NoOpModule is a helper that satisfies the handlers.Module interface and
// registers a single "noop" handler. It's useful for tests that should
// fail before routes bind but still need HCL that can pass handler
// resolution.
type NoOpModule struct{}

// Register registers a single "noop" handler that accepts any payload
// and does nothing.
func (m *NoOpModule) Register(r *handlers.Registry) {
	r.Register("noop", func(ctx context.Context, payload any) (any, error) {
		// No operation
		return nil, nil
	})
}
