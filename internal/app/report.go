package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/dirigo/dirigent/internal/registry"
)

// reportError writes a human-readable failure report to the app's output.
// Conflicts get special treatment: every colliding action is listed with its
// declaration site, so the user can jump straight to the offending blocks.
func (a *App) reportError(err error) {
	var conflict *registry.ConflictError
	if errors.As(err, &conflict) {
		fmt.Fprintf(a.outW, "Conflicting configuration on service %q for %v:\n",
			conflict.Configurable.Name(), conflict.Key)
		for _, action := range conflict.Actions {
			fmt.Fprintf(a.outW, "  - %v\n", action)
		}
		return
	}
	fmt.Fprintf(a.outW, "Error: %v\n", err)
}

// reportSummary prints a plan-style view of every service in dependency
// order: its identity policy, grants, route bindings, and settings as they
// ended up after override resolution.
func (a *App) reportSummary(plan *Plan) {
	fmt.Fprintf(a.outW, "Committed %d service(s).\n", len(plan.Services))

	for _, svc := range plan.Services {
		fmt.Fprintf(a.outW, "\nservice %q", svc.Name())
		if parents := svc.Extends(); len(parents) > 0 {
			names := make([]string, len(parents))
			for i, p := range parents {
				names[i] = p.Name()
			}
			fmt.Fprintf(a.outW, " (extends %s)", strings.Join(names, ", "))
		}
		fmt.Fprintln(a.outW)

		if policy, ok := svc.Policy(); ok {
			if policy.Realm != "" {
				fmt.Fprintf(a.outW, "  identity policy: %s (realm %q)\n", policy.Scheme, policy.Realm)
			} else {
				fmt.Fprintf(a.outW, "  identity policy: %s\n", policy.Scheme)
			}
		}

		for _, key := range svc.Grants().Keys() {
			grant, _ := svc.Grants().Lookup(key)
			fmt.Fprintf(a.outW, "  %v -> role %q\n", key, grant.Role)
		}

		for _, b := range svc.Routes().Bindings() {
			fmt.Fprintf(a.outW, "  route %s %s -> %s", b.Method, b.Path, b.Handler)
			if b.Grant != nil {
				fmt.Fprintf(a.outW, " [requires %s:%s]", b.Grant.Resource, b.Grant.Permission)
			}
			fmt.Fprintln(a.outW)
		}

		for _, name := range svc.Settings().Names() {
			value, _ := svc.Settings().Get(name)
			fmt.Fprintf(a.outW, "  setting %q = %s\n", name, renderValue(value))
		}
	}
}

// renderValue formats a setting value for the summary, falling back to the
// raw GoString for values JSON cannot express.
func renderValue(v cty.Value) string {
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}
