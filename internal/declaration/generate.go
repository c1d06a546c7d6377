// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package declaration

import (
	"context"
	"fmt"

	"github.com/vk/libdecl/internal/ctxlog"
)

// Orchestrator is the build orchestrator collaborator. Each Action kind maps
// onto exactly one of its methods.
type Orchestrator interface {
	RegisterLink(ctx context.Context, names []string) error
	ResolvePath(ctx context.Context, pkg string) error
	ApplyDependencyGroup(ctx context.Context, group string) error
}

// Execute hands actions to the orchestrator in order. The first orchestrator
// error is returned as is and stops execution.
func Execute(ctx context.Context, orch Orchestrator, actions []Action) error {
	for _, action := range actions {
		if err := executeAction(ctx, orch, action); err != nil {
			return err
		}
	}
	return nil
}

func executeAction(ctx context.Context, orch Orchestrator, action Action) error {
	switch action.Kind {
	case KindLinkLibrary:
		return orch.RegisterLink(ctx, action.Libraries)
	case KindResolvePackagePath:
		return orch.ResolvePath(ctx, action.Package)
	case KindIncludeDependencyGroup:
		return orch.ApplyDependencyGroup(ctx, action.Group)
	default:
		return fmt.Errorf("unsupported action kind %q", action.Kind)
	}
}

// Generate evaluates the latest revision and executes each action against
// orch as soon as it is produced.
func (d *Declaration) Generate(ctx context.Context, env Environment, orch Orchestrator, dependenciesOnly bool) error {
	return d.GenerateRevision(ctx, env, orch, 0, dependenciesOnly)
}

// GenerateRevision is Generate for an explicit revision number (0 = latest).
// Actions emitted before a failure have already been executed; nothing after
// it is. An orchestrator error is returned unchanged.
func (d *Declaration) GenerateRevision(ctx context.Context, env Environment, orch Orchestrator, revision int, dependenciesOnly bool) error {
	rev, err := d.resolve(ctx, revision)
	if err != nil {
		return err
	}
	executed := 0
	err = walk(ctx, d.Target, rev, env, dependenciesOnly, func(ctx context.Context, a Action) error {
		if err := executeAction(ctx, orch, a); err != nil {
			return err
		}
		executed++
		return nil
	})
	ctxlog.FromContext(ctx).Debug("Declaration actions executed.", "target", d.Target, "executed", executed, "failed", err != nil)
	return err
}
