package service

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/dirigo/dirigent/internal/registry"
)

// Apply priorities. Higher applies earlier within a service: the identity
// policy lands first, grants next, routes and settings last (priority 0).
const (
	PriorityIdentityPolicy = 10
	PriorityGrant          = 5
)

// Service is a named configuration target. Directives declared against it
// (or inherited from the services it extends) resolve through the registry
// and land in the runtime structures held here.
type Service struct {
	name    string
	cfg     *registry.Configurable
	parents []*Service

	routes   *RouteTable
	settings *SettingStore
	grants   *GrantTable
	policy   *Policy
}

// New returns an empty service named name.
func New(name string) *Service {
	s := &Service{name: name}
	s.Reset()
	s.cfg = registry.NewConfigurable(name, s)
	return s
}

// Name returns the service name.
func (s *Service) Name() string { return s.name }

// Configurable returns the registry configurable wrapping this service.
func (s *Service) Configurable() *registry.Configurable { return s.cfg }

// Extend declares that s inherits configuration from parents, in order.
// Earlier parents win when two of them resolve the same key; the service's
// own directives win over all of them.
func (s *Service) Extend(parents ...*Service) {
	for _, p := range parents {
		s.parents = append(s.parents, p)
		s.cfg.Extend(p.cfg)
	}
}

// Extends returns the extended services in declaration order.
func (s *Service) Extends() []*Service {
	out := make([]*Service, len(s.parents))
	copy(out, s.parents)
	return out
}

// Routes returns the service's route table.
func (s *Service) Routes() *RouteTable { return s.routes }

// Settings returns the service's setting store.
func (s *Service) Settings() *SettingStore { return s.settings }

// Grants returns the service's permission grant table.
func (s *Service) Grants() *GrantTable { return s.grants }

// Policy returns the installed identity policy, if any.
func (s *Service) Policy() (Policy, bool) {
	if s.policy == nil {
		return Policy{}, false
	}
	return *s.policy, true
}

// Reset drops every applied effect. The registry calls it through Clear when
// a commit starts, so re-committing rebuilds the tables instead of stacking
// a second copy of every binding.
func (s *Service) Reset() {
	s.routes = newRouteTable()
	s.settings = newSettingStore()
	s.grants = newGrantTable()
	s.policy = nil
}

func (s *Service) setPolicy(p Policy) { s.policy = &p }

// hostService unwraps the service a configurable carries as its host.
func hostService(host *registry.Configurable) (*Service, error) {
	svc, ok := host.Host().(*Service)
	if !ok {
		return nil, fmt.Errorf("configurable %q does not wrap a service", host.Name())
	}
	return svc, nil
}

// declSuffix renders an action's declaration site, or nothing for actions
// built without one.
func declSuffix(rng hcl.Range) string {
	if rng.Filename == "" {
		return ""
	}
	return fmt.Sprintf(" (%s:%d)", rng.Filename, rng.Start.Line)
}
