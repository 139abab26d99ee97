package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/schema"
)

// DecodeWorkspaceFile parses and decodes a single HCL workspace file into its
// declaration model. Directives keep their source order.
func DecodeWorkspaceFile(ctx context.Context, filePath string) (*schema.File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding workspace file.", "path", filePath)
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse workspace file %s: %s", filePath, diags.Error())
	}

	content, diags := hclFile.Body.Content(schema.FileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode workspace file %s: %s", filePath, diags.Error())
	}

	file := &schema.File{Path: filePath}
	for _, block := range content.Blocks {
		switch block.Type {
		case "service":
			decl, err := decodeServiceBlock(block)
			if err != nil {
				return nil, fmt.Errorf("failed to decode workspace file %s: %w", filePath, err)
			}
			file.Services = append(file.Services, decl)
		case "setting":
			decl, err := decodeBroadcastBlock(block)
			if err != nil {
				return nil, fmt.Errorf("failed to decode workspace file %s: %w", filePath, err)
			}
			file.Broadcasts = append(file.Broadcasts, decl)
		}
	}

	logger.Debug("Successfully decoded workspace file.",
		"path", filePath, "services_found", len(file.Services), "broadcasts_found", len(file.Broadcasts))
	return file, nil
}

// decodeServiceBlock decodes a `service` block, including every nested
// directive in declaration order.
func decodeServiceBlock(block *hcl.Block) (*schema.ServiceDecl, error) {
	decl := &schema.ServiceDecl{
		Name:      block.Labels[0],
		DeclRange: block.DefRange,
	}

	content, diags := block.Body.Content(schema.ServiceSchema)
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}

	if attr, ok := content.Attributes["extends"]; ok {
		decl.ExtendsRange = attr.Range
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &decl.Extends); diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
	}

	for _, inner := range content.Blocks {
		directive, err := decodeDirective(inner)
		if err != nil {
			return nil, err
		}
		decl.Directives = append(decl.Directives, directive)
	}

	return decl, nil
}

// decodeDirective decodes one directive block inside a service body.
func decodeDirective(block *hcl.Block) (schema.Directive, error) {
	switch block.Type {
	case "route":
		decl := &schema.RouteDecl{
			Method:    block.Labels[0],
			Path:      block.Labels[1],
			DeclRange: block.DefRange,
		}
		if diags := gohcl.DecodeBody(block.Body, nil, &decl.RouteBody); diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
		return decl, nil

	case "setting":
		decl := &schema.SettingDecl{
			Name:      block.Labels[0],
			DeclRange: block.DefRange,
		}
		if diags := gohcl.DecodeBody(block.Body, nil, &decl.SettingBody); diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
		return decl, nil

	case "permission":
		decl := &schema.PermissionDecl{
			Resource:   block.Labels[0],
			Permission: block.Labels[1],
			DeclRange:  block.DefRange,
		}
		if diags := gohcl.DecodeBody(block.Body, nil, &decl.PermissionBody); diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
		return decl, nil

	case "identity_policy":
		decl := &schema.PolicyDecl{
			DeclRange: block.DefRange,
		}
		if diags := gohcl.DecodeBody(block.Body, nil, &decl.IdentityPolicyBody); diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
		return decl, nil

	default:
		return nil, fmt.Errorf("unsupported block type %q at %s", block.Type, block.DefRange)
	}
}

// decodeBroadcastBlock decodes a top-level `setting` block.
func decodeBroadcastBlock(block *hcl.Block) (*schema.BroadcastDecl, error) {
	decl := &schema.BroadcastDecl{
		Name:      block.Labels[0],
		DeclRange: block.DefRange,
	}
	if diags := gohcl.DecodeBody(block.Body, nil, &decl.BroadcastBody); diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}
	return decl, nil
}
