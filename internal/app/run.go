package app

import (
	"context"
	"fmt"

	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/orchestrator"
)

// Run generates the configured target and writes the result to the output
// writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "target", a.config.Target, "revision", a.config.Revision)

	if a.config.ActionsOnly {
		actions, err := a.Actions(ctx)
		if err != nil {
			return err
		}
		return writeActions(a.outW, a.config.Output, actions)
	}

	plan, err := a.Plan(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Declaration generated.", "target", plan.Target, "revision", plan.Revision, "links", len(plan.Links), "unresolved", len(plan.Unresolved))
	return writePlan(a.outW, a.config.Output, plan)
}

// Actions evaluates the configured target without executing anything.
func (a *App) Actions(ctx context.Context) ([]declaration.Action, error) {
	decl, err := a.lookup(ctx)
	if err != nil {
		return nil, err
	}
	return decl.Actions(ctx, a.env, a.config.Revision, a.config.DependenciesOnly)
}

// Plan generates the configured target against a recording orchestrator.
func (a *App) Plan(ctx context.Context) (*orchestrator.Plan, error) {
	decl, err := a.lookup(ctx)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{orchestrator.WithStrict(a.config.Strict)}
	if len(a.config.PackageRoots) > 0 {
		opts = append(opts, orchestrator.WithPathFinder(orchestrator.DirFinder{Roots: a.config.PackageRoots}))
	}
	rec := orchestrator.NewRecorder(a.env, a.registry, opts...)
	if err := rec.Apply(ctx, decl, a.config.Revision, a.config.DependenciesOnly); err != nil {
		return nil, fmt.Errorf("generating %s: %w", decl.Target, err)
	}
	return rec.Plan(), nil
}

func (a *App) lookup(ctx context.Context) (*declaration.Declaration, error) {
	decl, ok := a.registry.Lookup(a.config.Target)
	if !ok {
		return nil, fmt.Errorf("no declaration registered for target %q (known: %v)", a.config.Target, a.registry.Targets())
	}
	if !decl.Exists(a.env) {
		return nil, fmt.Errorf("declaration for target %q is not available in this environment", a.config.Target)
	}
	ctxlog.FromContext(ctx).Debug("Declaration found.", "target", decl.Target, "source", decl.Source, "revisions", len(decl.Revisions))
	return decl, nil
}
