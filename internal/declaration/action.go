// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the resolution actions produced by the evaluator.
package declaration

import (
	"fmt"
	"slices"
	"strings"
)

// ActionKind identifies which orchestrator primitive an Action maps onto.
type ActionKind string

const (
	// KindLinkLibrary registers one or more libraries as link dependencies.
	KindLinkLibrary ActionKind = "link_library"
	// KindResolvePackagePath locates the filesystem path of a package.
	KindResolvePackagePath ActionKind = "resolve_package_path"
	// KindIncludeDependencyGroup applies another declaration transitively.
	KindIncludeDependencyGroup ActionKind = "include_dependency_group"
)

// Action is a single request emitted by the evaluator. Exactly one of
// Libraries, Package or Group is meaningful, depending on Kind.
type Action struct {
	Kind      ActionKind `json:"kind" yaml:"kind"`
	Libraries []string   `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	Package   string     `json:"package,omitempty" yaml:"package,omitempty"`
	Group     string     `json:"group,omitempty" yaml:"group,omitempty"`
}

// LinkLibrary returns an action that links the given libraries, in order.
func LinkLibrary(names ...string) Action {
	return Action{Kind: KindLinkLibrary, Libraries: slices.Clone(names)}
}

// ResolvePackagePath returns an action that resolves the path of pkg.
func ResolvePackagePath(pkg string) Action {
	return Action{Kind: KindResolvePackagePath, Package: pkg}
}

// IncludeDependencyGroup returns an action that applies the named declaration.
func IncludeDependencyGroup(group string) Action {
	return Action{Kind: KindIncludeDependencyGroup, Group: group}
}

// Equal reports whether two actions request the same thing.
func (a Action) Equal(other Action) bool {
	return a.Kind == other.Kind &&
		a.Package == other.Package &&
		a.Group == other.Group &&
		slices.Equal(a.Libraries, other.Libraries)
}

// String renders the action in the form used by the text plan output,
// e.g. `link_library gsl gslcblas`.
func (a Action) String() string {
	switch a.Kind {
	case KindLinkLibrary:
		return fmt.Sprintf("%s %s", a.Kind, strings.Join(a.Libraries, " "))
	case KindResolvePackagePath:
		return fmt.Sprintf("%s %s", a.Kind, a.Package)
	case KindIncludeDependencyGroup:
		return fmt.Sprintf("%s %s", a.Kind, a.Group)
	default:
		return string(a.Kind)
	}
}
