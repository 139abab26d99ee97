package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors minted by the registry itself. Errors returned by actions
// during expansion or apply pass through commit unmodified.
var (
	// ErrNotPrepared is returned when a configurable's resolved actions are
	// read, applied, or merged from before a successful Prepare.
	ErrNotPrepared = errors.New("configurable not prepared")

	// ErrExtendsCycle is returned when the extends graph cannot be ordered.
	ErrExtendsCycle = errors.New("cycle in extends graph")

	// ErrUnknownConfigurable is returned when an expanded registration is
	// owned by a configurable that was never added to the registry.
	ErrUnknownConfigurable = errors.New("configurable not known to registry")

	// ErrNilOwner is returned when a registration reaches distribution
	// without an owning configurable.
	ErrNilOwner = errors.New("action has no owning configurable")
)

// ConflictError reports two or more actions inside a single configurable
// claiming the same identifier or discriminator. Overrides across the
// extends graph are not conflicts; only claims within one configurable
// collide.
type ConflictError struct {
	// Configurable is the configurable the colliding actions belong to.
	Configurable *Configurable

	// Key is the identifier or discriminator both actions claimed.
	Key Key

	// Actions holds the colliding actions in registration order.
	Actions []Action
}

func (e *ConflictError) Error() string {
	names := make([]string, len(e.Actions))
	for i, a := range e.Actions {
		names[i] = fmt.Sprintf("%v", a)
	}
	return fmt.Sprintf("conflicting configuration on %q for %v: %s",
		e.Configurable.Name(), e.Key, strings.Join(names, " and "))
}
