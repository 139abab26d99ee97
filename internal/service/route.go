package service

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"

	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/internal/registry"
)

// RouteSpec carries everything a route declaration provides.
type RouteSpec struct {
	Method  string
	Path    string
	Handler string // registered handler name

	// Name optionally names the route; the name becomes a discriminator,
	// so two routes claiming one name conflict.
	Name string

	// Grant optionally references a permission the route requires. The
	// grant must exist on the host service (own or inherited) by the time
	// the route applies.
	Grant *GrantKey

	Priority  int
	Aliases   []string // extra paths the route expands to
	Disabled  bool     // a disabled route expands to nothing
	DeclRange hcl.Range
}

// Route binds a method and path to a named handler on its owning service.
type Route struct {
	registry.Base
	method   string
	path     string
	handler  string
	name     string
	grant    *GrantKey
	aliases  []string
	disabled bool
	decl     hcl.Range
}

// NewRoute returns a route action owned by owner.
func NewRoute(owner *Service, spec RouteSpec) *Route {
	return &Route{
		Base:     registry.NewBase(owner.Configurable(), spec.Priority),
		method:   spec.Method,
		path:     spec.Path,
		handler:  spec.Handler,
		name:     spec.Name,
		grant:    spec.Grant,
		aliases:  slices.Clone(spec.Aliases),
		disabled: spec.Disabled,
		decl:     spec.DeclRange,
	}
}

// Identifier claims the method and path.
func (r *Route) Identifier() registry.Key {
	return RouteKey{Method: r.method, Path: r.path}
}

// Discriminators claims the route name, when the route has one.
func (r *Route) Discriminators() []registry.Key {
	if r.name == "" {
		return nil
	}
	return []registry.Key{RouteName{Name: r.name}}
}

// Expand drops disabled routes and fans aliased routes out into one
// registration per path, all owned by the same service.
func (r *Route) Expand(target any) ([]registry.Registration, error) {
	if r.disabled {
		return nil, nil
	}
	regs := make([]registry.Registration, 0, 1+len(r.aliases))
	regs = append(regs, registry.Registration{Action: r, Target: target})
	for _, alias := range r.aliases {
		regs = append(regs, registry.Registration{Action: r.aliased(alias), Target: target})
	}
	return regs, nil
}

// aliased derives a copy claiming an alternate path. The copy keeps the
// grant requirement and priority but never the route name: the name stays
// claimed by the primary path alone.
func (r *Route) aliased(path string) *Route {
	out := *r
	out.Base = r.Base.Derive()
	out.path = path
	out.name = ""
	out.aliases = nil
	return &out
}

// Apply resolves the required grant against the host service and records
// the binding in its route table.
func (r *Route) Apply(host *registry.Configurable, target any) error {
	svc, err := hostService(host)
	if err != nil {
		return err
	}
	fn, ok := target.(handlers.Func)
	if !ok {
		return fmt.Errorf("%v: target %T is not a handler func", r, target)
	}
	if r.grant != nil {
		if _, ok := svc.Grants().Lookup(*r.grant); !ok {
			return fmt.Errorf("%v: requires unknown %v on service %q", r, *r.grant, svc.Name())
		}
	}
	svc.Routes().bind(Binding{
		Method:  r.method,
		Path:    r.path,
		Name:    r.name,
		Handler: r.handler,
		Func:    fn,
		Grant:   r.grant,
	})
	return nil
}

func (r *Route) String() string {
	return fmt.Sprintf("route %s %s%s", r.method, r.path, declSuffix(r.decl))
}
