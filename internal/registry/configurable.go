package registry

import (
	"cmp"
	"fmt"
	"slices"
)

// entry is one distributed registration: the action, its target, and the
// global order stamped when it was first registered.
type entry struct {
	action Action
	target any
	order  int
}

// Resetter is implemented by hosts that derive state from applied actions.
// Clear calls Reset so that a re-commit starts from an empty host instead of
// stacking a second round of apply effects onto the first.
type Resetter interface {
	Reset()
}

// Configurable is a named configuration target. It accumulates the actions
// distributed to it during commit, detects conflicting claims, and merges
// the resolved actions of every configurable it extends.
type Configurable struct {
	name    string
	host    any
	extends []*Configurable

	// raw holds distributed entries in registration order. resolved and
	// sequence are derived from it by Prepare: resolved maps each winning
	// identifier to its entry, sequence keeps the deterministic merge order
	// (own entries first, then inherited per parent) that Apply sorts over.
	raw      []entry
	resolved map[Key]entry
	sequence []entry
	prepared bool
}

// NewConfigurable returns a configurable named name, configuring host.
// extends lists the configurables it inherits actions from; earlier entries
// win when two parents resolve the same identifier.
func NewConfigurable(name string, host any, extends ...*Configurable) *Configurable {
	return &Configurable{
		name:    name,
		host:    host,
		extends: slices.Clone(extends),
	}
}

// Name returns the configurable's diagnostic name.
func (c *Configurable) Name() string { return c.name }

// Host returns the opaque structure actions apply into.
func (c *Configurable) Host() any { return c.host }

// Extends returns the configurables inherited from, in declaration order.
func (c *Configurable) Extends() []*Configurable {
	return slices.Clone(c.extends)
}

// Extend appends parents to the extends list. Later parents lose to earlier
// ones when both resolve the same identifier. Extends are normally wired
// before the configurable is introduced to a registry, so that introduction
// can cover the whole closure.
func (c *Configurable) Extend(parents ...*Configurable) {
	c.extends = append(c.extends, parents...)
}

// Prepared reports whether the last Prepare completed without error.
func (c *Configurable) Prepared() bool { return c.prepared }

// Clear drops all distributed and resolved state, and resets the host when
// it implements Resetter. Commit clears every configurable before
// redistributing, which is what makes commit re-runnable.
func (c *Configurable) Clear() {
	c.raw = nil
	c.resolved = nil
	c.sequence = nil
	c.prepared = false
	if h, ok := c.host.(Resetter); ok {
		h.Reset()
	}
}

// add appends a distributed entry. Validation waits until Prepare.
func (c *Configurable) add(action Action, target any, order int) {
	c.raw = append(c.raw, entry{action: action, target: target, order: order})
}

// Prepare derives the resolved action set from scratch. It indexes every own
// action's identifier and discriminators, failing with a ConflictError when
// two own actions claim the same key, then merges the resolved entries of
// each extended configurable, skipping identifiers already present. Every
// extended configurable must itself be prepared first.
func (c *Configurable) Prepare() error {
	c.prepared = false
	c.resolved = make(map[Key]entry, len(c.raw))
	c.sequence = c.sequence[:0]

	claimed := make(map[Key]Action, len(c.raw))
	for _, e := range c.raw {
		keys := []Key{e.action.Identifier()}
		if d, ok := e.action.(Discriminated); ok {
			keys = append(keys, d.Discriminators()...)
		}
		for _, k := range keys {
			if prev, taken := claimed[k]; taken {
				return &ConflictError{
					Configurable: c,
					Key:          k,
					Actions:      []Action{prev, e.action},
				}
			}
			claimed[k] = e.action
		}
		c.resolved[e.action.Identifier()] = e
		c.sequence = append(c.sequence, e)
	}

	for _, parent := range c.extends {
		if !parent.prepared {
			return fmt.Errorf("%w: %q extends %q", ErrNotPrepared, c.name, parent.name)
		}
		for _, pe := range parent.sequence {
			id := pe.action.Identifier()
			if _, own := c.resolved[id]; own {
				continue
			}
			c.resolved[id] = pe
			c.sequence = append(c.sequence, pe)
		}
	}

	c.prepared = true
	return nil
}

// Apply runs every resolved action against its target, higher priorities
// first and registration order within a priority. The first action error
// aborts the remainder and propagates unmodified.
func (c *Configurable) Apply() error {
	ordered, err := c.ordered()
	if err != nil {
		return err
	}
	for _, e := range ordered {
		if err := e.action.Apply(c, e.target); err != nil {
			return err
		}
	}
	return nil
}

// Resolved returns the winning registration per identifier after a
// successful Prepare. The map is a copy; mutating it does not affect the
// configurable.
func (c *Configurable) Resolved() (map[Key]Registration, error) {
	if !c.prepared {
		return nil, fmt.Errorf("%w: %q", ErrNotPrepared, c.name)
	}
	out := make(map[Key]Registration, len(c.resolved))
	for k, e := range c.resolved {
		out[k] = Registration{Action: e.action, Target: e.target}
	}
	return out, nil
}

// Actions returns the resolved registrations in the order Apply runs them.
func (c *Configurable) Actions() ([]Registration, error) {
	ordered, err := c.ordered()
	if err != nil {
		return nil, err
	}
	regs := make([]Registration, len(ordered))
	for i, e := range ordered {
		regs[i] = Registration{Action: e.action, Target: e.target}
	}
	return regs, nil
}

// ordered sorts the merged sequence by descending priority, then ascending
// global order. The sort is stable over the deterministic merge order, so
// expanded siblings that share an order keep their expansion sequence.
func (c *Configurable) ordered() ([]entry, error) {
	if !c.prepared {
		return nil, fmt.Errorf("%w: %q", ErrNotPrepared, c.name)
	}
	out := slices.Clone(c.sequence)
	slices.SortStableFunc(out, func(a, b entry) int {
		if d := cmp.Compare(b.action.Priority(), a.action.Priority()); d != 0 {
			return d
		}
		return cmp.Compare(a.order, b.order)
	})
	return out, nil
}
