package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/internal/registry"
	"github.com/dirigo/dirigent/internal/schema"
	"github.com/dirigo/dirigent/internal/service"
)

// Workspace is the loaded form of a configuration workspace: one service per
// service block, wired by extends, plus every directive held as a pending
// registration in declaration order. A Workspace feeds a registry through
// Provide; nothing takes effect until that registry commits.
type Workspace struct {
	services []*service.Service
	byName   map[string]*service.Service
	regs     []registry.Registration
}

func newWorkspace() *Workspace {
	return &Workspace{byName: make(map[string]*service.Service)}
}

// LoadWorkspace finds, parses, and assembles the HCL workspace files at the
// given path. Handler references resolve here, so a route naming an
// unregistered handler is a load error rather than a commit error.
func LoadWorkspace(ctx context.Context, workspacePath string, funcs *handlers.Registry) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("LoadWorkspace started.", "path", workspacePath)

	hclFiles, err := ResolveWorkspacePath(ctx, workspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path '%s': %w", workspacePath, err)
	}

	ws := newWorkspace()
	if len(hclFiles) == 0 {
		logger.Warn("No .hcl files found at the specified path.", "path", workspacePath)
		return ws, nil
	}

	logger.Info("Found HCL files to process.", "count", len(hclFiles), "path", workspacePath)
	files := make([]*schema.File, 0, len(hclFiles))
	for _, file := range hclFiles {
		logger.Debug("Resolved HCL file.", "path", file)
		decoded, err := DecodeWorkspaceFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load workspace file '%s': %w", file, err)
		}
		files = append(files, decoded)
	}

	if err := ws.assemble(ctx, files, funcs); err != nil {
		return nil, err
	}

	logger.Debug("Finished loading workspace.",
		"services", len(ws.services), "registrations", len(ws.regs))
	return ws, nil
}

// Services returns the workspace's services in declaration order.
func (w *Workspace) Services() []*service.Service {
	out := make([]*service.Service, len(w.services))
	copy(out, w.services)
	return out
}

// Service returns the named service.
func (w *Workspace) Service(name string) (*service.Service, bool) {
	svc, ok := w.byName[name]
	return svc, ok
}

// Provide implements registry.Source. It introduces every service's
// configurable and registers every pending registration in declaration order,
// which is the order the commit uses to break apply-order ties.
func (w *Workspace) Provide(r *registry.Registry) error {
	for _, svc := range w.services {
		r.AddConfigurable(svc.Configurable())
	}
	for _, reg := range w.regs {
		r.Register(reg.Action, reg.Target)
	}
	return nil
}

// assemble builds services from the decoded files, wires extends, and turns
// every directive into a pending registration.
func (w *Workspace) assemble(ctx context.Context, files []*schema.File, funcs *handlers.Registry) error {
	logger := ctxlog.FromContext(ctx)

	// Extends and broadcasts reference services by name, possibly across
	// files, so every service is created before anything resolves.
	declared := make(map[string]*schema.ServiceDecl)
	for _, file := range files {
		for _, decl := range file.Services {
			if first, exists := declared[decl.Name]; exists {
				return fmt.Errorf("duplicate service %q at %s (first declared at %s)",
					decl.Name, decl.DeclRange, first.DeclRange)
			}
			declared[decl.Name] = decl
			svc := service.New(decl.Name)
			w.services = append(w.services, svc)
			w.byName[decl.Name] = svc
		}
	}

	for _, file := range files {
		for _, decl := range file.Services {
			if len(decl.Extends) == 0 {
				continue
			}
			parents := make([]*service.Service, 0, len(decl.Extends))
			for _, name := range decl.Extends {
				parent, ok := w.byName[name]
				if !ok {
					return fmt.Errorf("service %q extends unknown service %q at %s",
						decl.Name, name, decl.ExtendsRange)
				}
				parents = append(parents, parent)
			}
			w.byName[decl.Name].Extend(parents...)
		}
	}

	for _, file := range files {
		for _, decl := range file.Services {
			svc := w.byName[decl.Name]
			for _, directive := range decl.Directives {
				reg, err := w.buildDirective(svc, directive, funcs)
				if err != nil {
					return err
				}
				w.regs = append(w.regs, reg)
			}
		}
	}

	// Broadcasts always register after the service blocks; their expansion
	// redirects them to each target service at commit time.
	for _, file := range files {
		for _, decl := range file.Broadcasts {
			targets := make([]*service.Service, 0, len(decl.Services))
			for _, name := range decl.Services {
				svc, ok := w.byName[name]
				if !ok {
					return fmt.Errorf("broadcast setting %q targets unknown service %q at %s",
						decl.Name, name, decl.DeclRange)
				}
				targets = append(targets, svc)
			}
			w.regs = append(w.regs, registry.Registration{
				Action: service.NewBroadcast(decl.Name, targets, decl.DeclRange),
				Target: decl.Value,
			})
		}
	}

	logger.Debug("Assembled workspace.", "services", len(w.services), "registrations", len(w.regs))
	return nil
}

// buildDirective turns one decoded directive into a registration owned by svc.
func (w *Workspace) buildDirective(svc *service.Service, directive schema.Directive, funcs *handlers.Registry) (registry.Registration, error) {
	switch d := directive.(type) {
	case *schema.RouteDecl:
		return w.buildRoute(svc, d, funcs)

	case *schema.SettingDecl:
		return registry.Registration{
			Action: service.NewSetting(svc, d.Name, d.DeclRange),
			Target: d.Value,
		}, nil

	case *schema.PermissionDecl:
		return registry.Registration{
			Action: service.NewPermission(svc, d.Resource, d.Permission, d.DeclRange),
			Target: service.Grant{Role: d.Role},
		}, nil

	case *schema.PolicyDecl:
		return registry.Registration{
			Action: service.NewIdentityPolicy(svc, d.DeclRange),
			Target: service.Policy{Scheme: d.Scheme, Realm: d.Realm},
		}, nil

	default:
		return registry.Registration{}, fmt.Errorf("unsupported directive %T at %s", directive, directive.Range())
	}
}

func (w *Workspace) buildRoute(svc *service.Service, d *schema.RouteDecl, funcs *handlers.Registry) (registry.Registration, error) {
	fn, ok := funcs.Lookup(d.Handler)
	if !ok {
		return registry.Registration{}, fmt.Errorf("route %s %s references unknown handler %q at %s",
			d.Method, d.Path, d.Handler, d.DeclRange)
	}

	spec := service.RouteSpec{
		Method:    d.Method,
		Path:      d.Path,
		Handler:   d.Handler,
		Name:      d.Name,
		Priority:  d.Priority,
		Aliases:   d.Aliases,
		Disabled:  d.Enabled != nil && !*d.Enabled,
		DeclRange: d.DeclRange,
	}
	if d.Permission != "" {
		grant, err := parseGrantRef(d.Permission)
		if err != nil {
			return registry.Registration{}, fmt.Errorf("route %s %s at %s: %w", d.Method, d.Path, d.DeclRange, err)
		}
		spec.Grant = &grant
	}

	return registry.Registration{
		Action: service.NewRoute(svc, spec),
		Target: fn,
	}, nil
}

// parseGrantRef splits a "resource:permission" reference.
func parseGrantRef(ref string) (service.GrantKey, error) {
	resource, permission, ok := strings.Cut(ref, ":")
	if !ok || resource == "" || permission == "" {
		return service.GrantKey{}, fmt.Errorf("malformed permission reference %q, want \"resource:permission\"", ref)
	}
	return service.GrantKey{Resource: resource, Permission: permission}, nil
}
