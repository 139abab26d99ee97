package integration_tests

import (
	"context"

	"github.com/dirigo/dirigent/internal/handlers"
)

// testHandlers returns the handler set the integration workspaces bind to.
func testHandlers() map[string]handlers.Func {
	mock := func(ctx context.Context, payload any) (any, error) { return nil, nil }
	return map[string]handlers.Func{
		"noop":         mock,
		"users.list":   mock,
		"users.create": mock,
		"health.check": mock,
	}
}
