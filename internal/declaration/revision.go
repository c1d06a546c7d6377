// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the data that describes a declaration: its steps, its
// revisions and the declaration itself.
//
// A revision is a table of steps interpreted by Evaluate. The history of a
// target (a transitive include dropped, a mandatory group added, a group made
// conditional and later optional) is recorded as a sequence of revisions.
package declaration

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
)

// ErrUnknownRevision is returned when a revision number is not declared.
var ErrUnknownRevision = errors.New("unknown revision")

// StepKind identifies the type of a declaration step.
type StepKind string

const (
	// StepLinkSelf links the declaring target itself. Skipped in
	// dependencies-only mode.
	StepLinkSelf StepKind = "link_self"
	// StepResolvePath resolves the path of the package named by Step.Name.
	StepResolvePath StepKind = "resolve_path"
	// StepInclude applies the declaration named by Step.Name.
	StepInclude StepKind = "include"
	// StepLinkGroup links the library group named by Step.Name.
	StepLinkGroup StepKind = "link_group"
)

// StepKinds lists every step kind in a stable order.
var StepKinds = []StepKind{StepLinkSelf, StepResolvePath, StepInclude, StepLinkGroup}

// Step is one entry of a revision.
type Step struct {
	Kind StepKind

	// Name is the package, declaration or group the step refers to. It is
	// empty for StepLinkSelf.
	Name string

	// When is a boolean HCL expression over the platform and container_name
	// variables. A nil When always holds.
	When hcl.Expression

	// Optional makes an absent library group a silent skip instead of a
	// MissingGroupError. Only meaningful for StepLinkGroup.
	Optional bool

	// SelfOnly restricts the step to evaluations that also produced the
	// self-link, i.e. it is dropped in dependencies-only mode.
	SelfOnly bool
}

// Revision is one versioned shape of a declaration.
type Revision struct {
	Number int
	Steps  []Step

	// Superseded marks revisions kept for history only.
	Superseded bool
	Note       string
}

// Declaration holds all revisions of one library target.
type Declaration struct {
	Target    string
	Revisions []*Revision
	Source    string
}

// New creates a declaration with its revisions sorted by number.
func New(target string, revisions ...*Revision) *Declaration {
	d := &Declaration{Target: target, Revisions: slices.Clone(revisions)}
	d.sortRevisions()
	return d
}

func (d *Declaration) sortRevisions() {
	slices.SortStableFunc(d.Revisions, func(a, b *Revision) int {
		return a.Number - b.Number
	})
}

// Latest returns the highest-numbered revision, or nil for an empty
// declaration.
func (d *Declaration) Latest() *Revision {
	if d == nil || len(d.Revisions) == 0 {
		return nil
	}
	return d.Revisions[len(d.Revisions)-1]
}

// Revision returns the revision with the given number. Zero selects the
// latest revision.
func (d *Declaration) Revision(number int) (*Revision, error) {
	if number == 0 {
		if rev := d.Latest(); rev != nil {
			return rev, nil
		}
		return nil, fmt.Errorf("declaration %q has no revisions: %w", d.Target, ErrUnknownRevision)
	}
	for _, rev := range d.Revisions {
		if rev.Number == number {
			return rev, nil
		}
	}
	return nil, fmt.Errorf("declaration %q, revision %d: %w", d.Target, number, ErrUnknownRevision)
}

// Includes returns the names of all declarations the revisions include,
// deduplicated, in first-seen order.
func (d *Declaration) Includes() []string {
	var names []string
	for _, rev := range d.Revisions {
		for _, step := range rev.Steps {
			if step.Kind == StepInclude && !slices.Contains(names, step.Name) {
				names = append(names, step.Name)
			}
		}
	}
	return names
}

// Exists reports whether the declaration is available. The orchestrator
// checks it before calling Generate; a loaded declaration is always
// available.
func (d *Declaration) Exists(Environment) bool {
	return true
}
