package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/internal/registry"
)

func TestPermission_ApplyRecordsGrant(t *testing.T) {
	t.Parallel()

	svc := New("api")
	perm := NewPermission(svc, "users", "write", declAt("api.hcl", 8))
	assert.Equal(t, GrantKey{Resource: "users", Permission: "write"}, perm.Identifier())
	assert.Equal(t, PriorityGrant, perm.Priority(), "grants must apply before the routes that need them")

	require.NoError(t, perm.Apply(svc.Configurable(), Grant{Role: "admins"}))

	grant, ok := svc.Grants().Lookup(GrantKey{Resource: "users", Permission: "write"})
	require.True(t, ok)
	assert.Equal(t, "admins", grant.Role)
	assert.Equal(t, []GrantKey{{Resource: "users", Permission: "write"}}, svc.Grants().Keys())
}

func TestPermission_ApplyRejectsNonGrantTarget(t *testing.T) {
	t.Parallel()

	svc := New("api")
	perm := NewPermission(svc, "users", "write", declAt("api.hcl", 8))

	err := perm.Apply(svc.Configurable(), "admins")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a grant")
	assert.Equal(t, 0, svc.Grants().Len())
}

func TestPermission_String(t *testing.T) {
	t.Parallel()

	svc := New("api")
	assert.Equal(t, "permission users:write (api.hcl:8)",
		NewPermission(svc, "users", "write", declAt("api.hcl", 8)).String())
}

func TestIdentityPolicy_ApplySetsPolicy(t *testing.T) {
	t.Parallel()

	svc := New("api")
	action := NewIdentityPolicy(svc, declAt("api.hcl", 2))
	assert.Equal(t, PolicyKey{}, action.Identifier())
	assert.Equal(t, PriorityIdentityPolicy, action.Priority(), "the policy must apply before everything else")

	require.NoError(t, action.Apply(svc.Configurable(), Policy{Scheme: "basic", Realm: "Admin"}))

	policy, ok := svc.Policy()
	require.True(t, ok)
	assert.Equal(t, Policy{Scheme: "basic", Realm: "Admin"}, policy)
}

func TestIdentityPolicy_ApplyRejectsNonPolicyTarget(t *testing.T) {
	t.Parallel()

	svc := New("api")
	action := NewIdentityPolicy(svc, declAt("api.hcl", 2))

	err := action.Apply(svc.Configurable(), "basic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a policy")
	_, ok := svc.Policy()
	assert.False(t, ok)
}

func TestServiceActions_ApplyThroughRegistryCommit(t *testing.T) {
	t.Parallel()

	base := New("base")
	admin := New("admin")
	admin.Extend(base)

	reg := registry.New()
	reg.AddConfigurable(admin.Configurable())

	// Grants and policy live on the base service; the admin route depends
	// on the inherited grant.
	reg.Register(NewIdentityPolicy(base, declAt("base.hcl", 1)), Policy{Scheme: "basic", Realm: "Ops"})
	reg.Register(NewPermission(base, "users", "write", declAt("base.hcl", 3)), Grant{Role: "admins"})
	reg.Register(NewRoute(admin, RouteSpec{
		Method:  "POST",
		Path:    "/users",
		Handler: "users.create",
		Grant:   &GrantKey{Resource: "users", Permission: "write"},
	}), handlers.Func(noopHandler))

	require.NoError(t, reg.Commit(context.Background()))

	policy, ok := admin.Policy()
	require.True(t, ok, "the policy must be inherited from base")
	assert.Equal(t, "Ops", policy.Realm)

	_, ok = admin.Grants().Lookup(GrantKey{Resource: "users", Permission: "write"})
	assert.True(t, ok, "the grant must be inherited from base")

	binding, ok := admin.Routes().Lookup("POST", "/users")
	require.True(t, ok)
	assert.Equal(t, "users.create", binding.Handler)

	assert.Equal(t, 0, base.Routes().Len(), "base declared no routes of its own")
}
