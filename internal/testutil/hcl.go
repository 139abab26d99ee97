package testutil

import (
	"context"
	"testing"

	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/internal/service"
)

// RunHCLServiceTest provides a simplified harness for testing the commit of a
// single workspace HCL string. It wraps the main commit harness, providing
// dummy handlers that satisfy route resolution for handler names commonly
// bound in tests.
func RunHCLServiceTest(t *testing.T, workspaceHCL string) (*CommitResult, []*service.Service) {
	t.Helper()

	files := map[string]string{
		"main.hcl": workspaceHCL,
	}

	// Route directives resolve handler names at load time, so the common
	// names used across commit tests need to map to something callable.
	mock := func(ctx context.Context, payload any) (any, error) { return nil, nil }
	module := &SimpleModule{Handlers: map[string]handlers.Func{
		"noop":         mock,
		"users.list":   mock,
		"users.create": mock,
		"health.check": mock,
	}}

	result := RunCommitTest(t, files, module)

	if result.Plan != nil {
		return result, result.Plan.Services
	}
	return result, nil
}
