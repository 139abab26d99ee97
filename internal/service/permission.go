package service

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/dirigo/dirigent/internal/registry"
)

// Permission records a grant rule for a (resource, permission) pair. Grants
// apply before routes so that routes can require them.
type Permission struct {
	registry.Base
	resource   string
	permission string
	decl       hcl.Range
}

// NewPermission returns a permission action owned by owner.
func NewPermission(owner *Service, resource, permission string, decl hcl.Range) *Permission {
	return &Permission{
		Base:       registry.NewBase(owner.Configurable(), PriorityGrant),
		resource:   resource,
		permission: permission,
		decl:       decl,
	}
}

// Identifier claims the (resource, permission) pair.
func (p *Permission) Identifier() registry.Key {
	return GrantKey{Resource: p.resource, Permission: p.permission}
}

// Apply records the target grant in the host service's grant table.
func (p *Permission) Apply(host *registry.Configurable, target any) error {
	svc, err := hostService(host)
	if err != nil {
		return err
	}
	g, ok := target.(Grant)
	if !ok {
		return fmt.Errorf("%v: target %T is not a grant", p, target)
	}
	svc.Grants().add(GrantKey{Resource: p.resource, Permission: p.permission}, g)
	return nil
}

func (p *Permission) String() string {
	return fmt.Sprintf("permission %s:%s%s", p.resource, p.permission, declSuffix(p.decl))
}
