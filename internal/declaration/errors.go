// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package declaration

import (
	"errors"
	"fmt"
)

// ErrMissingGroup matches every MissingGroupError via errors.Is.
var ErrMissingGroup = errors.New("missing library group")

// MissingGroupError is returned when a mandatory library group is absent
// from the environment.
type MissingGroupError struct {
	Group string
}

func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("mandatory library group %q is not defined in the environment", e.Group)
}

// Is lets errors.Is(err, ErrMissingGroup) match.
func (e *MissingGroupError) Is(target error) bool {
	return target == ErrMissingGroup
}

// ConditionError is returned when a step's `when` expression cannot be
// reduced to a known boolean.
type ConditionError struct {
	Step  StepKind
	Name  string
	Range string
	Err   error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition of %s %q at %s: %v", e.Step, e.Name, e.Range, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}
