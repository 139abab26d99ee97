package service

import "fmt"

// Claim keys. Each action kind claims keys of its own comparable struct
// type, so claims from different kinds can never collide by accident.

// RouteKey is a route action's identifier.
type RouteKey struct {
	Method string
	Path   string
}

func (k RouteKey) String() string { return fmt.Sprintf("route %s %s", k.Method, k.Path) }

// RouteName is the discriminator claimed by named routes. Two routes with
// different paths but one name conflict through it.
type RouteName struct {
	Name string
}

func (k RouteName) String() string { return fmt.Sprintf("route name %q", k.Name) }

// SettingKey is a setting action's identifier.
type SettingKey struct {
	Name string
}

func (k SettingKey) String() string { return fmt.Sprintf("setting %q", k.Name) }

// GrantKey is a permission action's identifier, and the key routes use to
// reference the grant they require.
type GrantKey struct {
	Resource   string
	Permission string
}

func (k GrantKey) String() string { return fmt.Sprintf("permission %s:%s", k.Resource, k.Permission) }

// PolicyKey is the singleton identifier claimed by identity policies. A
// second policy in the same service conflicts; a child's policy overrides
// its parent's.
type PolicyKey struct{}

func (PolicyKey) String() string { return "identity policy" }
