package registry

import (
	"context"
	"fmt"

	"github.com/dirigo/dirigent/internal/ctxlog"
)

// Source feeds a registry. The production source is the workspace engine;
// tests build ad-hoc sources. Provide must register configurables and
// actions in declaration order, since that order is the apply tie-break.
type Source interface {
	Provide(r *Registry) error
}

// record is a registration plus the global order it was stamped with.
type record struct {
	Registration
	order int
}

// Registry accumulates registrations and configurables, then realizes them
// as a single transaction via Commit. Registration is append-only and
// unvalidated; every check happens inside Commit.
//
// A Registry is not safe for concurrent use. Registration and commit are
// synchronous, startup-time operations; callers that need concurrency must
// serialize access themselves.
type Registry struct {
	records       []record
	configurables []*Configurable
	known         map[*Configurable]bool
	count         int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{known: make(map[*Configurable]bool)}
}

// Register records an action against a target. The pair is stamped with the
// next global order number, which later breaks apply-order ties between
// actions of equal priority. Nothing is validated here.
func (r *Registry) Register(action Action, target any) {
	r.records = append(r.records, record{
		Registration: Registration{Action: action, Target: target},
		order:        r.count,
	})
	r.count++
}

// AddConfigurable introduces a configurable and, transitively, everything it
// extends, so commit's dependency ordering always covers the full extends
// closure. Adding the same configurable twice is a no-op.
func (r *Registry) AddConfigurable(c *Configurable) {
	if c == nil || r.known[c] {
		return
	}
	r.known[c] = true
	r.configurables = append(r.configurables, c)
	for _, parent := range c.extends {
		r.AddConfigurable(parent)
	}
}

// Configurables returns the known configurables in introduction order.
func (r *Registry) Configurables() []*Configurable {
	out := make([]*Configurable, len(r.configurables))
	copy(out, r.configurables)
	return out
}

// Ordered returns the known configurables in dependency order, extended
// configurables first. It fails with ErrExtendsCycle when the extends graph
// has a cycle.
func (r *Registry) Ordered() ([]*Configurable, error) {
	return sortConfigurables(r.configurables)
}

// Commit realizes every registration recorded so far:
//
//  1. clear every known configurable,
//  2. expand each registration and distribute the results to their owners,
//  3. order configurables by the extends graph,
//  4. prepare each configurable (conflict detection, inheritance merge),
//  5. apply each configurable's resolved actions.
//
// The first error aborts the remainder: later configurables are neither
// prepared nor applied, and already-applied effects stay in place. Errors
// raised by actions propagate unmodified. Commit may be called again after
// further registrations; the clear step makes re-commits deterministic.
func (r *Registry) Commit(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, c := range r.configurables {
		c.Clear()
	}
	logger.Debug("Commit: cleared configurables.", "count", len(r.configurables))

	for _, rec := range r.records {
		expanded, err := expand(rec.Registration)
		if err != nil {
			return err
		}
		for _, reg := range expanded {
			owner := reg.Action.Owner()
			if owner == nil {
				return fmt.Errorf("%w: %v", ErrNilOwner, reg.Action)
			}
			if !r.known[owner] {
				return fmt.Errorf("%w: %q (action %v)", ErrUnknownConfigurable, owner.Name(), reg.Action)
			}
			owner.add(reg.Action, reg.Target, rec.order)
		}
	}
	logger.Debug("Commit: distributed registrations.", "count", len(r.records))

	ordered, err := sortConfigurables(r.configurables)
	if err != nil {
		return err
	}
	logger.Debug("Commit: ordered configurables by extends graph.")

	for _, c := range ordered {
		if err := c.Prepare(); err != nil {
			return err
		}
	}
	logger.Debug("Commit: prepared configurables.")

	for _, c := range ordered {
		if err := c.Apply(); err != nil {
			return err
		}
	}
	logger.Debug("Commit: applied configurables.")

	return nil
}

// expand fans a registration out through its action's Expand, or returns it
// unchanged for plain actions.
func expand(reg Registration) ([]Registration, error) {
	if ex, ok := reg.Action.(Expander); ok {
		return ex.Expand(reg.Target)
	}
	return []Registration{reg}, nil
}
