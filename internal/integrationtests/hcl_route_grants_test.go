package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirigo/dirigent/internal/service"
	"github.com/dirigo/dirigent/internal/testutil"
)

// TestRoute_ResolvesGrantDeclaredAfterIt relies on apply priorities: grants
// apply before routes regardless of declaration order, so a route may
// reference a permission declared further down the file.
func TestRoute_ResolvesGrantDeclaredAfterIt(t *testing.T) {
	workspaceHCL := `
		service "api" {
			route "GET" "/users" {
				handler    = "users.list"
				permission = "users:read"
			}

			permission "users" "read" {
				role = "everyone"
			}
		}
	`
	result, _ := testutil.RunHCLServiceTest(t, workspaceHCL)
	require.NoError(t, result.Err, result.LogOutput)

	api := testutil.FindService(t, result, "api")
	binding, ok := api.Routes().Lookup("GET", "/users")
	require.True(t, ok)
	require.NotNil(t, binding.Grant)
	assert.Equal(t, service.GrantKey{Resource: "users", Permission: "read"}, *binding.Grant)
}

func TestRoute_ResolvesInheritedGrant(t *testing.T) {
	workspaceHCL := `
		service "base" {
			permission "users" "read" {
				role = "everyone"
			}
		}

		service "api" {
			extends = ["base"]

			route "GET" "/users" {
				handler    = "users.list"
				permission = "users:read"
			}
		}
	`
	result, _ := testutil.RunHCLServiceTest(t, workspaceHCL)
	require.NoError(t, result.Err, result.LogOutput)

	testutil.AssertRouteBound(t, result, "api", "GET", "/users", "users.list")
}

func TestRoute_UnknownGrantFailsTheCommit(t *testing.T) {
	workspaceHCL := `
		service "api" {
			route "GET" "/users" {
				handler    = "users.list"
				permission = "users:write"
			}
		}
	`
	result, _ := testutil.RunHCLServiceTest(t, workspaceHCL)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "permission users:write")
	assert.Contains(t, result.Err.Error(), `service "api"`)
}
