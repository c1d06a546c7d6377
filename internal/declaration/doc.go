// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package declaration implements dependency declarations for library targets
// and the evaluator that turns them into resolution actions.
//
// # Core Concepts
//
//   - Declaration: everything known about one library target, most
//     importantly the ordered list of its Revisions.
//
//   - Revision: one versioned shape of a declaration. A revision is a plain
//     list of Steps; adding a mandatory group, making a group conditional, or
//     dropping a transitive include produces a new revision record rather
//     than new control flow.
//
//   - Step: one typed entry of a revision (link_self, resolve_path, include,
//     link_group) with an optional `when` condition and the optional and
//     self_only flags.
//
//   - Action: what the evaluator emits for the orchestrator to execute:
//     LinkLibrary, ResolvePackagePath or IncludeDependencyGroup.
//
// # Evaluation
//
// Evaluate is a pure function of (revision, environment, dependenciesOnly).
// It reads the platform and container name from the Environment, evaluates
// each step's condition against them, and looks library groups up by exact,
// case-sensitive name. A mandatory group that is absent stops evaluation with
// a MissingGroupError; an optional one is skipped.
//
// Generate walks the same steps but hands each action to an Orchestrator the
// moment it is emitted. When a mandatory group is missing, the actions
// emitted before it have already executed and nothing after it runs. An
// orchestrator error stops the walk at once and is returned unchanged.
//
// Evaluate and Generate hold no state of their own and are safe to call
// concurrently for independent targets as long as the Environment is not
// mutated during the call.
package declaration
