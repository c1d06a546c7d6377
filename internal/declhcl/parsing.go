// Package declhcl holds small HCL helpers shared by the declaration
// evaluator and the HCL loader.
package declhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed.",
					Subject:  &block.DefRange,
				})
			}
			found = block
		}
	}

	return found, diags
}

// DecodeOptionalBool decodes the named attribute as a literal bool. A missing
// attribute yields false.
func DecodeOptionalBool(attrs hcl.Attributes, name string) (bool, hcl.Diagnostics) {
	var value bool
	attr, exists := attrs[name]
	if !exists {
		return false, nil
	}
	diags := gohcl.DecodeExpression(attr.Expr, nil, &value)
	return value, diags
}

// DecodeOptionalString decodes the named attribute as a literal string. A
// missing attribute yields "".
func DecodeOptionalString(attrs hcl.Attributes, name string) (string, hcl.Diagnostics) {
	var value string
	attr, exists := attrs[name]
	if !exists {
		return "", nil
	}
	diags := gohcl.DecodeExpression(attr.Expr, nil, &value)
	return value, diags
}

// UnsupportedAttribute reports an attribute that is valid in the schema but
// not for the block it appears in.
func UnsupportedAttribute(attr *hcl.Attribute, blockType string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Unsupported attribute",
		Detail:   fmt.Sprintf("The %q attribute is not allowed in a %q block.", attr.Name, blockType),
		Subject:  attr.NameRange.Ptr(),
	}
}
