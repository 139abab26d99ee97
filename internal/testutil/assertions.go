package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dirigo/dirigent/internal/service"
)

// FindService returns the named service from a commit result's plan, failing
// the test when the commit errored or the service is missing.
func FindService(t *testing.T, result *CommitResult, name string) *service.Service {
	t.Helper()

	require.NoError(t, result.Err, "commit failed; logs:\n%s", result.LogOutput)
	require.NotNil(t, result.Plan, "commit produced no plan")
	svc, ok := result.Plan.Workspace.Service(name)
	require.True(t, ok, "service %q not found in committed workspace", name)
	return svc
}

// AssertRouteBound checks a committed service's route table for a binding and
// the handler it resolved to. It abstracts the underlying table format, making
// tests more resilient to internal refactoring.
func AssertRouteBound(t *testing.T, result *CommitResult, serviceName, method, path, handler string) {
	t.Helper()

	svc := FindService(t, result, serviceName)
	b, ok := svc.Routes().Lookup(method, path)
	require.True(t, ok,
		"expected route %s %s on service %q, table has %d bindings", method, path, serviceName, svc.Routes().Len(),
	)
	require.Equal(t, handler, b.Handler)
}
