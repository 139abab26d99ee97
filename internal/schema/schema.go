package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Workspace File Format ---

// FileSchema describes the top level of a workspace file: service blocks and
// broadcast setting blocks.
var FileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "service", LabelNames: []string{"name"}},
		{Type: "setting", LabelNames: []string{"name"}},
	},
}

// ServiceSchema describes the body of a `service` block.
var ServiceSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "extends"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "identity_policy"},
		{Type: "permission", LabelNames: []string{"resource", "permission"}},
		{Type: "route", LabelNames: []string{"method", "path"}},
		{Type: "setting", LabelNames: []string{"name"}},
	},
}

// --- Block Bodies ---

// RouteBody is the decoded body of a `route` block.
type RouteBody struct {
	Handler    string   `hcl:"handler"`
	Name       string   `hcl:"name,optional"`
	Permission string   `hcl:"permission,optional"`
	Priority   int      `hcl:"priority,optional"`
	Aliases    []string `hcl:"aliases,optional"`
	Enabled    *bool    `hcl:"enabled,optional"`
}

// SettingBody is the decoded body of a `setting` block inside a service.
type SettingBody struct {
	Value cty.Value `hcl:"value"`
}

// BroadcastBody is the decoded body of a top-level `setting` block, which
// fans one value out to the listed services.
type BroadcastBody struct {
	Services []string  `hcl:"services"`
	Value    cty.Value `hcl:"value"`
}

// PermissionBody is the decoded body of a `permission` block.
type PermissionBody struct {
	Role string `hcl:"role"`
}

// IdentityPolicyBody is the decoded body of an `identity_policy` block.
type IdentityPolicyBody struct {
	Scheme string `hcl:"scheme"`
	Realm  string `hcl:"realm,optional"`
}

// --- Declarations ---

// Directive is one declaration inside a service body. The concrete types are
// RouteDecl, SettingDecl, PermissionDecl, and PolicyDecl. A service keeps its
// directives in source order, and that order becomes registration order.
type Directive interface {
	// Range returns the declaration site for diagnostics.
	Range() hcl.Range
}

// ServiceDecl is a decoded `service` block.
type ServiceDecl struct {
	Name       string
	Extends    []string
	Directives []Directive
	DeclRange  hcl.Range

	// ExtendsRange is the source range of the extends attribute, set only
	// when the attribute is present.
	ExtendsRange hcl.Range
}

// RouteDecl is a decoded `route` block with its method and path labels.
type RouteDecl struct {
	Method string
	Path   string
	RouteBody
	DeclRange hcl.Range
}

func (d *RouteDecl) Range() hcl.Range { return d.DeclRange }

// SettingDecl is a decoded service-level `setting` block.
type SettingDecl struct {
	Name string
	SettingBody
	DeclRange hcl.Range
}

func (d *SettingDecl) Range() hcl.Range { return d.DeclRange }

// PermissionDecl is a decoded `permission` block with its two labels.
type PermissionDecl struct {
	Resource   string
	Permission string
	PermissionBody
	DeclRange hcl.Range
}

func (d *PermissionDecl) Range() hcl.Range { return d.DeclRange }

// PolicyDecl is a decoded `identity_policy` block.
type PolicyDecl struct {
	IdentityPolicyBody
	DeclRange hcl.Range
}

func (d *PolicyDecl) Range() hcl.Range { return d.DeclRange }

// BroadcastDecl is a decoded top-level `setting` block.
type BroadcastDecl struct {
	Name string
	BroadcastBody
	DeclRange hcl.Range
}

func (d *BroadcastDecl) Range() hcl.Range { return d.DeclRange }

// File is the decoded form of one workspace file, in declaration order.
type File struct {
	Path       string
	Services   []*ServiceDecl
	Broadcasts []*BroadcastDecl
}
