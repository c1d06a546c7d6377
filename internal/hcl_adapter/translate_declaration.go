package hcl_adapter

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/declhcl"
)

// declarationBodySchema is the schema of a `declaration "<target>" {}` body.
var declarationBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "revision", LabelNames: []string{"number"}},
	},
}

// revisionBodySchema is the schema of a `revision "<n>" {}` body. Steps are
// blocks so that their source order is preserved.
var revisionBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "note"},
		{Name: "superseded"},
	},
	Blocks: stepBlockSchemas(),
}

// stepBodySchema is shared by all step blocks; stepRules narrows it per kind.
var stepBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "when"},
		{Name: "optional"},
		{Name: "self_only"},
	},
}

// stepRule describes the block header and attributes of one step kind.
type stepRule struct {
	label         string
	allowOptional bool
	allowSelfOnly bool
}

// stepRules is the table that drives step translation.
var stepRules = map[declaration.StepKind]stepRule{
	declaration.StepLinkSelf:    {},
	declaration.StepResolvePath: {label: "package", allowSelfOnly: true},
	declaration.StepInclude:     {label: "declaration", allowSelfOnly: true},
	declaration.StepLinkGroup:   {label: "group", allowOptional: true, allowSelfOnly: true},
}

// stepBlockSchemas returns one block header per step kind, in
// declaration.StepKinds order.
func stepBlockSchemas() []hcl.BlockHeaderSchema {
	blocks := make([]hcl.BlockHeaderSchema, 0, len(declaration.StepKinds))
	for _, kind := range declaration.StepKinds {
		rule, ok := stepRules[kind]
		if !ok {
			panic(fmt.Sprintf("hcl_adapter: no step rule for step kind %q", kind))
		}
		header := hcl.BlockHeaderSchema{Type: string(kind)}
		if rule.label != "" {
			header.LabelNames = []string{rule.label}
		}
		blocks = append(blocks, header)
	}
	return blocks
}

// translateDeclaration converts one `declaration` block.
func translateDeclaration(block *hcl.Block, filename string) (*declaration.Declaration, hcl.Diagnostics) {
	target := block.Labels[0]
	var diags hcl.Diagnostics

	if target == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty declaration target",
			Detail:   "A declaration must name the library target it describes.",
			Subject:  block.LabelRanges[0].Ptr(),
		})
		return nil, diags
	}

	content, contentDiags := block.Body.Content(declarationBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	seen := make(map[int]struct{})
	var revisions []*declaration.Revision
	for _, revBlock := range content.Blocks.OfType("revision") {
		rev, revDiags := translateRevision(revBlock)
		diags = append(diags, revDiags...)
		if revDiags.HasErrors() {
			continue
		}
		if _, dup := seen[rev.Number]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate revision",
				Detail:   fmt.Sprintf("Revision %d of %q has already been defined.", rev.Number, target),
				Subject:  &revBlock.DefRange,
			})
			continue
		}
		seen[rev.Number] = struct{}{}
		revisions = append(revisions, rev)
	}

	if len(revisions) == 0 && !diags.HasErrors() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Declaration without revisions",
			Detail:   fmt.Sprintf("The declaration %q must contain at least one revision block.", target),
			Subject:  &block.DefRange,
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	decl := declaration.New(target, revisions...)
	decl.Source = filename
	return decl, diags
}

// translateRevision converts one `revision` block and its steps.
func translateRevision(block *hcl.Block) (*declaration.Revision, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	number, err := strconv.Atoi(block.Labels[0])
	if err != nil || number < 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid revision number",
			Detail:   fmt.Sprintf("Revision labels must be positive integers, got %q.", block.Labels[0]),
			Subject:  block.LabelRanges[0].Ptr(),
		})
		return nil, diags
	}

	content, contentDiags := block.Body.Content(revisionBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	rev := &declaration.Revision{Number: number}

	var attrDiags hcl.Diagnostics
	rev.Note, attrDiags = declhcl.DecodeOptionalString(content.Attributes, "note")
	diags = append(diags, attrDiags...)
	rev.Superseded, attrDiags = declhcl.DecodeOptionalBool(content.Attributes, "superseded")
	diags = append(diags, attrDiags...)

	// content.Blocks keeps source order across block types.
	for _, stepBlock := range content.Blocks {
		step, stepDiags := translateStep(stepBlock)
		diags = append(diags, stepDiags...)
		if !stepDiags.HasErrors() {
			rev.Steps = append(rev.Steps, step)
		}
	}

	return rev, diags
}

// translateStep converts one step block using stepRules.
func translateStep(block *hcl.Block) (declaration.Step, hcl.Diagnostics) {
	kind := declaration.StepKind(block.Type)
	step := declaration.Step{Kind: kind}
	if len(block.Labels) > 0 {
		step.Name = block.Labels[0]
	}

	rule, known := stepRules[kind]
	if !known {
		// Unreachable while stepRules and revisionBodySchema agree.
		return step, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported step",
			Detail:   fmt.Sprintf("Step kind %q is not supported.", block.Type),
			Subject:  &block.DefRange,
		}}
	}

	content, diags := block.Body.Content(stepBodySchema)
	if diags.HasErrors() {
		return step, diags
	}

	if attr, exists := content.Attributes["when"]; exists {
		diags = append(diags, declaration.ValidateCondition(attr.Expr)...)
		step.When = attr.Expr
	}

	if attr, exists := content.Attributes["optional"]; exists && !rule.allowOptional {
		diags = append(diags, declhcl.UnsupportedAttribute(attr, block.Type))
	} else {
		var optDiags hcl.Diagnostics
		step.Optional, optDiags = declhcl.DecodeOptionalBool(content.Attributes, "optional")
		diags = append(diags, optDiags...)
	}

	if attr, exists := content.Attributes["self_only"]; exists && !rule.allowSelfOnly {
		diags = append(diags, declhcl.UnsupportedAttribute(attr, block.Type))
	} else {
		var selfDiags hcl.Diagnostics
		step.SelfOnly, selfDiags = declhcl.DecodeOptionalBool(content.Attributes, "self_only")
		diags = append(diags, selfDiags...)
	}

	if kind != declaration.StepLinkSelf && step.Name == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty step label",
			Detail:   fmt.Sprintf("A %q step must name what it refers to.", block.Type),
			Subject:  &block.DefRange,
		})
	}

	return step, diags
}
