// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file contains the evaluator: a single interpreter over revision
// tables.
//
// Each step kind has an entry in stepEvaluators. Adding a new kind of step
// means adding one entry there and one in the HCL schema; walk itself only
// interprets the table.
package declaration

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/libdecl/internal/ctxlog"
)

// evaluation carries the per-call state shared by the step evaluators.
type evaluation struct {
	target           string
	env              Environment
	evalCtx          *hcl.EvalContext
	dependenciesOnly bool
	selfLinked       bool
	emit             func(ctx context.Context, a Action) error
}

// stepEvaluator turns one step into zero or more emitted actions.
type stepEvaluator func(ctx context.Context, e *evaluation, step Step) error

// stepEvaluators is the table that drives evaluation.
var stepEvaluators = map[StepKind]stepEvaluator{
	StepLinkSelf: func(ctx context.Context, e *evaluation, _ Step) error {
		if e.dependenciesOnly {
			return nil
		}
		if err := e.emit(ctx, LinkLibrary(e.target)); err != nil {
			return err
		}
		e.selfLinked = true
		return nil
	},
	StepResolvePath: func(ctx context.Context, e *evaluation, step Step) error {
		return e.emit(ctx, ResolvePackagePath(step.Name))
	},
	StepInclude: func(ctx context.Context, e *evaluation, step Step) error {
		return e.emit(ctx, IncludeDependencyGroup(step.Name))
	},
	StepLinkGroup: func(ctx context.Context, e *evaluation, step Step) error {
		libs, ok := e.env.Group(step.Name)
		if !ok {
			if step.Optional {
				ctxlog.FromContext(ctx).Debug("Optional library group absent, skipping.", "group", step.Name)
				return nil
			}
			return &MissingGroupError{Group: step.Name}
		}
		return e.emit(ctx, LinkLibrary(libs...))
	},
}

// walk interprets rev step by step and passes every action to emit as soon
// as it is produced. The first error from a condition, a missing mandatory
// group or emit itself stops the walk.
func walk(ctx context.Context, target string, rev *Revision, env Environment, dependenciesOnly bool, emit func(context.Context, Action) error) error {
	logger := ctxlog.FromContext(ctx)
	if rev == nil {
		return fmt.Errorf("declaration %q: %w", target, ErrUnknownRevision)
	}
	logger.Debug("Evaluating declaration.",
		"target", target,
		"revision", rev.Number,
		"dependencies_only", dependenciesOnly,
		"platform", env.Field(FieldPlatform),
		"container_name", env.Field(FieldContainerName),
	)

	e := &evaluation{
		target:           target,
		env:              env,
		evalCtx:          conditionContext(env),
		dependenciesOnly: dependenciesOnly,
		emit:             emit,
	}

	for i, step := range rev.Steps {
		if step.SelfOnly && !e.selfLinked {
			logger.Debug("Skipping self-only step.", "index", i, "kind", step.Kind, "name", step.Name)
			continue
		}

		ok, err := step.holds(e.evalCtx)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("Step condition does not hold.", "index", i, "kind", step.Kind, "name", step.Name)
			continue
		}

		eval, known := stepEvaluators[step.Kind]
		if !known {
			return fmt.Errorf("declaration %q, revision %d, step %d: unsupported step kind %q", target, rev.Number, i, step.Kind)
		}
		if err := eval(ctx, e, step); err != nil {
			logger.Debug("Declaration evaluation failed.", "target", target, "step", i, "error", err)
			return err
		}
	}
	return nil
}

// Evaluate produces the ordered actions of one revision of target's
// declaration. When dependenciesOnly is set the self-link, and every step
// marked SelfOnly, is omitted. Evaluation stops at the first missing
// mandatory group and returns a *MissingGroupError with no actions.
func Evaluate(ctx context.Context, target string, rev *Revision, env Environment, dependenciesOnly bool) ([]Action, error) {
	var actions []Action
	collect := func(_ context.Context, a Action) error {
		actions = append(actions, a)
		return nil
	}
	if err := walk(ctx, target, rev, env, dependenciesOnly, collect); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Declaration evaluated.", "target", target, "actions", len(actions))
	return actions, nil
}

// Actions evaluates the given revision (0 = latest) of the declaration.
func (d *Declaration) Actions(ctx context.Context, env Environment, revision int, dependenciesOnly bool) ([]Action, error) {
	rev, err := d.resolve(ctx, revision)
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, d.Target, rev, env, dependenciesOnly)
}

// resolve looks up a revision and warns when it has been superseded.
func (d *Declaration) resolve(ctx context.Context, revision int) (*Revision, error) {
	rev, err := d.Revision(revision)
	if err != nil {
		return nil, err
	}
	if rev.Superseded {
		ctxlog.FromContext(ctx).Warn("Evaluating a superseded revision.", "target", d.Target, "revision", rev.Number, "note", rev.Note)
	}
	return rev, nil
}
