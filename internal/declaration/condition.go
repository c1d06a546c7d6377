// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file evaluates step conditions.
//
// A condition is an HCL expression such as
//
//	platform == "win32" && container_name == "GlastRelease"
//
// evaluated against the two environment fields a declaration may branch on.
// A condition that does not hold is the "do nothing" branch of its step.
package declaration

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/libdecl/internal/declhcl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Environment field names read by the evaluator.
const (
	FieldPlatform      = "platform"
	FieldContainerName = "containerName"
)

// Variable names visible inside `when` expressions.
const (
	VarPlatform      = "platform"
	VarContainerName = "container_name"
)

// ConditionVariables lists the variables a condition may reference.
var ConditionVariables = []string{VarPlatform, VarContainerName}

// Environment is the read-only build configuration a declaration is
// evaluated against.
type Environment interface {
	// Field returns the named field, or "" when it is absent.
	Field(name string) string
	// Group returns the ordered libraries of the named group and whether
	// the group is defined at all.
	Group(name string) ([]string, bool)
}

// conditionContext builds the evaluation context for `when` expressions.
func conditionContext(env Environment) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			VarPlatform:      cty.StringVal(env.Field(FieldPlatform)),
			VarContainerName: cty.StringVal(env.Field(FieldContainerName)),
		},
	}
}

// holds evaluates the step's condition. Steps without a condition always hold.
func (s Step) holds(evalCtx *hcl.EvalContext) (bool, error) {
	if s.When == nil {
		return true, nil
	}
	val, diags := s.When.Value(evalCtx)
	if diags.HasErrors() {
		return false, s.conditionError(diags)
	}
	val, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, s.conditionError(err)
	}
	if val.IsNull() || !val.IsKnown() {
		return false, s.conditionError(fmt.Errorf("condition did not produce a known bool"))
	}
	return val.True(), nil
}

func (s Step) conditionError(err error) *ConditionError {
	return &ConditionError{Step: s.Kind, Name: s.Name, Range: s.When.Range().String(), Err: err}
}

// ParseCondition parses the source of a `when` expression and validates it.
func ParseCondition(src, filename string) (hcl.Expression, hcl.Diagnostics) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	diags = append(diags, ValidateCondition(expr)...)
	if diags.HasErrors() {
		return nil, diags
	}
	return expr, diags
}

// MustCondition is like ParseCondition but panics on invalid input. It is
// meant for conditions written in Go source.
func MustCondition(src string) hcl.Expression {
	expr, diags := ParseCondition(src, "<when>")
	if diags.HasErrors() {
		panic(fmt.Sprintf("invalid condition %q: %s", src, diags.Error()))
	}
	return expr
}

// ValidateCondition checks statically that expr only references the
// condition variables and yields a boolean. Evaluating with unknown
// variable values catches type errors without a concrete environment.
func ValidateCondition(expr hcl.Expression) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if expr == nil {
		return diags
	}

	for _, traversal := range expr.Variables() {
		if !slices.Contains(ConditionVariables, traversal.RootName()) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown condition variable",
				Detail:   fmt.Sprintf("Conditions may only reference %q and %q, not %q.", VarPlatform, VarContainerName, declhcl.TraversalKey(traversal)),
				Subject:  traversal.SourceRange().Ptr(),
			})
		}
	}
	if diags.HasErrors() {
		return diags
	}

	val, valDiags := expr.Value(&hcl.EvalContext{
		Variables: map[string]cty.Value{
			VarPlatform:      cty.UnknownVal(cty.String),
			VarContainerName: cty.UnknownVal(cty.String),
		},
	})
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return diags
	}

	ty := val.Type()
	if (!ty.Equals(cty.Bool) && !ty.Equals(cty.DynamicPseudoType)) || val.IsNull() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid condition",
			Detail:   fmt.Sprintf("A condition must be a boolean expression, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}
	return diags
}
