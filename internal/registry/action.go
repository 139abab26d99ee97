package registry

// Key identifies a configuration claim. Keys are compared with ==, so every
// Key must be a comparable value; small struct types per action kind keep
// claims from different kinds disjoint.
type Key any

// Action is a single declarative configuration step. Implementations carry
// whatever data the step needs; the registry only reads the contract below.
type Action interface {
	// Identifier returns the key this action claims. It must be pure and
	// return the same key on every call. Two actions with equal identifiers
	// conflict inside one configurable and override across extends.
	Identifier() Key

	// Owner returns the configurable this action is destined for.
	Owner() *Configurable

	// Priority orders apply within a configurable. Higher applies earlier;
	// registration order breaks ties.
	Priority() int

	// Apply performs the configuration step against target. host is the
	// configurable being configured, which differs from Owner when the
	// action was inherited through extends.
	Apply(host *Configurable, target any) error
}

// Discriminated is implemented by actions that claim extra keys beyond their
// identifier. Discriminators collide with other actions' identifiers and
// discriminators alike, but never win an override on their own.
type Discriminated interface {
	Action

	// Discriminators returns additional claimed keys.
	Discriminators() []Key
}

// Expander is implemented by actions that fan out (or fan in) at commit
// time. Actions without Expand register themselves unchanged.
type Expander interface {
	Action

	// Expand returns the registrations this action stands for. Each result
	// is routed to its own action's Owner; returning an empty slice drops
	// the action entirely.
	Expand(target any) ([]Registration, error)
}

// Registration pairs an action with the opaque target it configures.
type Registration struct {
	Action Action
	Target any
}

// Override replaces one field of a Base during Derive.
type Override func(*Base)

// WithOwner redirects a derived action to a different configurable.
func WithOwner(owner *Configurable) Override {
	return func(b *Base) { b.owner = owner }
}

// WithPriority changes a derived action's priority.
func WithPriority(priority int) Override {
	return func(b *Base) { b.priority = priority }
}

// Base carries the owner and priority shared by every action kind. Embed it
// by value and build concrete actions around it.
type Base struct {
	owner    *Configurable
	priority int
}

// NewBase returns a Base owned by the given configurable.
func NewBase(owner *Configurable, priority int) Base {
	return Base{owner: owner, priority: priority}
}

// Owner returns the configurable this action is destined for.
func (b Base) Owner() *Configurable { return b.owner }

// Priority returns the action's apply priority.
func (b Base) Priority() int { return b.priority }

// Derive returns a copy of the base with the given overrides applied. The
// copy is shallow and explicit; concrete action kinds wrap it to produce
// retargeted copies of themselves during expansion.
func (b Base) Derive(overrides ...Override) Base {
	out := b
	for _, o := range overrides {
		o(&out)
	}
	return out
}
