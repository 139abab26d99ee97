package service

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/dirigo/dirigent/internal/registry"
)

// IdentityPolicy installs the service's identity policy. Every policy
// claims the same singleton key: a second policy in one service is a
// conflict, while a child service's policy overrides its parent's. It
// applies before everything else in the service.
type IdentityPolicy struct {
	registry.Base
	decl hcl.Range
}

// NewIdentityPolicy returns an identity policy action owned by owner.
func NewIdentityPolicy(owner *Service, decl hcl.Range) *IdentityPolicy {
	return &IdentityPolicy{
		Base: registry.NewBase(owner.Configurable(), PriorityIdentityPolicy),
		decl: decl,
	}
}

// Identifier claims the per-service policy slot.
func (ip *IdentityPolicy) Identifier() registry.Key {
	return PolicyKey{}
}

// Apply installs the target policy on the host service.
func (ip *IdentityPolicy) Apply(host *registry.Configurable, target any) error {
	svc, err := hostService(host)
	if err != nil {
		return err
	}
	p, ok := target.(Policy)
	if !ok {
		return fmt.Errorf("%v: target %T is not a policy", ip, target)
	}
	svc.setPolicy(p)
	return nil
}

func (ip *IdentityPolicy) String() string {
	return fmt.Sprintf("identity_policy%s", declSuffix(ip.decl))
}
