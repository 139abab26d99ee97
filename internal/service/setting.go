package service

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/dirigo/dirigent/internal/registry"
)

// Setting writes one named value into its owning service's setting store.
// The value travels as the registration target, so a single declared value
// can be broadcast to several services without copying the action's data.
type Setting struct {
	registry.Base
	name string
	decl hcl.Range
}

// NewSetting returns a setting action owned by owner.
func NewSetting(owner *Service, name string, decl hcl.Range) *Setting {
	return &Setting{
		Base: registry.NewBase(owner.Configurable(), 0),
		name: name,
		decl: decl,
	}
}

// Identifier claims the setting name.
func (s *Setting) Identifier() registry.Key {
	return SettingKey{Name: s.name}
}

// Apply writes the target value into the host service's setting store.
func (s *Setting) Apply(host *registry.Configurable, target any) error {
	svc, err := hostService(host)
	if err != nil {
		return err
	}
	v, ok := target.(cty.Value)
	if !ok {
		return fmt.Errorf("%v: target %T is not a cty.Value", s, target)
	}
	svc.Settings().set(s.name, v)
	return nil
}

func (s *Setting) String() string {
	return fmt.Sprintf("setting %q%s", s.name, declSuffix(s.decl))
}

// Broadcast is a top-level setting declared once and fanned out to several
// services. It owns no configurable itself: expansion derives one Setting
// per listed service, each redirected to that service's configurable.
type Broadcast struct {
	registry.Base
	name     string
	services []*Service
	decl     hcl.Range
}

// NewBroadcast returns a broadcast setting targeting services.
func NewBroadcast(name string, services []*Service, decl hcl.Range) *Broadcast {
	return &Broadcast{
		name:     name,
		services: services,
		decl:     decl,
	}
}

// Identifier claims the setting name, like the settings it expands into.
func (b *Broadcast) Identifier() registry.Key {
	return SettingKey{Name: b.name}
}

// Expand derives one setting per target service.
func (b *Broadcast) Expand(target any) ([]registry.Registration, error) {
	regs := make([]registry.Registration, 0, len(b.services))
	for _, svc := range b.services {
		derived := &Setting{
			Base: b.Base.Derive(registry.WithOwner(svc.Configurable())),
			name: b.name,
			decl: b.decl,
		}
		regs = append(regs, registry.Registration{Action: derived, Target: target})
	}
	return regs, nil
}

// Apply fails: a broadcast only reaches configurables through the settings
// it expands into.
func (b *Broadcast) Apply(host *registry.Configurable, target any) error {
	return fmt.Errorf("%v: broadcast settings apply only through expansion", b)
}

func (b *Broadcast) String() string {
	return fmt.Sprintf("broadcast setting %q%s", b.name, declSuffix(b.decl))
}
