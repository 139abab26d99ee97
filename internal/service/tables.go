package service

import (
	"slices"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/dirigo/dirigent/internal/handlers"
)

// Binding is one applied route: the claim plus the handler it resolves to.
type Binding struct {
	Method  string
	Path    string
	Name    string    // optional route name
	Handler string    // registered handler name
	Func    handlers.Func
	Grant   *GrantKey // permission required to hit the route, if any
}

// RouteTable holds the bindings applied to one service, in apply order.
type RouteTable struct {
	bindings []Binding
	index    map[RouteKey]int
}

func newRouteTable() *RouteTable {
	return &RouteTable{index: make(map[RouteKey]int)}
}

// bind appends a binding. The registry's conflict detection guarantees each
// RouteKey lands here at most once per commit.
func (t *RouteTable) bind(b Binding) {
	t.index[RouteKey{Method: b.Method, Path: b.Path}] = len(t.bindings)
	t.bindings = append(t.bindings, b)
}

// Bindings returns the bindings in apply order.
func (t *RouteTable) Bindings() []Binding {
	return slices.Clone(t.bindings)
}

// Lookup returns the binding for a method and path.
func (t *RouteTable) Lookup(method, path string) (Binding, bool) {
	i, ok := t.index[RouteKey{Method: method, Path: path}]
	if !ok {
		return Binding{}, false
	}
	return t.bindings[i], true
}

// Len returns the number of bindings.
func (t *RouteTable) Len() int { return len(t.bindings) }

// SettingStore holds the setting values applied to one service.
type SettingStore struct {
	values map[string]cty.Value
}

func newSettingStore() *SettingStore {
	return &SettingStore{values: make(map[string]cty.Value)}
}

func (st *SettingStore) set(name string, v cty.Value) { st.values[name] = v }

// Get returns the value of a setting.
func (st *SettingStore) Get(name string) (cty.Value, bool) {
	v, ok := st.values[name]
	return v, ok
}

// Names returns the setting names in sorted order.
func (st *SettingStore) Names() []string {
	out := make([]string, 0, len(st.values))
	for name := range st.values {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of settings.
func (st *SettingStore) Len() int { return len(st.values) }

// Grant is the rule recorded for a permission claim.
type Grant struct {
	Role string
}

// GrantTable holds the permission grants applied to one service.
type GrantTable struct {
	grants map[GrantKey]Grant
}

func newGrantTable() *GrantTable {
	return &GrantTable{grants: make(map[GrantKey]Grant)}
}

func (t *GrantTable) add(k GrantKey, g Grant) { t.grants[k] = g }

// Lookup returns the grant recorded for a key.
func (t *GrantTable) Lookup(k GrantKey) (Grant, bool) {
	g, ok := t.grants[k]
	return g, ok
}

// Keys returns the grant keys sorted by resource, then permission.
func (t *GrantTable) Keys() []GrantKey {
	out := make([]GrantKey, 0, len(t.grants))
	for k := range t.grants {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b GrantKey) int {
		if d := strings.Compare(a.Resource, b.Resource); d != 0 {
			return d
		}
		return strings.Compare(a.Permission, b.Permission)
	})
	return out
}

// Len returns the number of grants.
func (t *GrantTable) Len() int { return len(t.grants) }

// Policy is an identity policy installed on a service.
type Policy struct {
	Scheme string
	Realm  string
}
