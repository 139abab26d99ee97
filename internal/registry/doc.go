// Package registry implements a declarative configuration-action registry.
//
// Components register discrete configuration actions against named
// configurables. Each action carries an identifier (and optionally extra
// discriminators) that define its configuration claim, a priority, and the
// side effect to run. The registry stamps every registration with a global
// order number and defers all validation to commit time.
//
// Commit is a two-phase process. First every configurable is cleared and all
// registrations are expanded and distributed to the configurable that owns
// them. Then configurables are prepared in dependency order: duplicate claims
// inside one configurable surface as a ConflictError, while claims inherited
// through the extends graph are merged, with the extending configurable's own
// actions winning. Only after every configurable prepared cleanly are the
// actions applied, sorted by descending priority and ascending registration
// order.
//
// The registry never interprets what an action does. Targets and hosts are
// opaque; concrete action kinds live with the structures they configure.
package registry
