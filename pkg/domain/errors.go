package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNonDeterministicTransition is returned when a rule for the same (state, input)
// pair already exists, or when the supplied transition is nil.
var ErrNonDeterministicTransition = errors.New("non-deterministic transition")

// ErrBadInput is returned when no rule matches a (state, input) pair.
var ErrBadInput = errors.New("bad input")

// ErrBadTable is returned by interpretation when the table itself is malformed.
var ErrBadTable = errors.New("bad transition table")

// NonDeterministicTransitionError describes a rejected insertion.
type NonDeterministicTransitionError struct {
	Rejected *Transition // nil when the caller passed a nil transition
	Existing *Transition // the rule already owning the pair
}

func (e *NonDeterministicTransitionError) Error() string {
	if e.Rejected == nil {
		return fmt.Sprintf("%s: transition is nil", ErrNonDeterministicTransition)
	}
	return fmt.Sprintf("%s: %s already defined by %s", ErrNonDeterministicTransition, e.Rejected.Key(), e.Existing)
}

func (e *NonDeterministicTransitionError) Unwrap() error {
	return ErrNonDeterministicTransition
}

// BadInputError describes a lookup that found no rule.
type BadInputError struct {
	State int
	Input rune
	// Position is the index of the offending symbol within an interpreted
	// sequence, or -1 for a direct lookup.
	Position int
}

func (e *BadInputError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: no transition for state %d on %q", ErrBadInput, e.State, e.Input)
	}
	return fmt.Sprintf("%s: no transition for state %d on %q at position %d", ErrBadInput, e.State, e.Input, e.Position)
}

func (e *BadInputError) Unwrap() error {
	return ErrBadInput
}

// BadTableError lists what makes a table unusable for interpretation.
type BadTableError struct {
	IllegalTransitions []*Transition // rules whose NextState is never a CurrentState
	MissingInputs      []Pair        // observed (state, input) pairs without a rule
}

func (e *BadTableError) Error() string {
	var parts []string
	if len(e.IllegalTransitions) > 0 {
		rules := make([]string, 0, len(e.IllegalTransitions))
		for _, t := range e.IllegalTransitions {
			rules = append(rules, t.String())
		}
		parts = append(parts, "transitions to illegal states: "+strings.Join(rules, ", "))
	}
	if len(e.MissingInputs) > 0 {
		pairs := make([]string, 0, len(e.MissingInputs))
		for _, p := range e.MissingInputs {
			pairs = append(pairs, p.String())
		}
		parts = append(parts, "missing inputs: "+strings.Join(pairs, ", "))
	}
	if len(parts) == 0 {
		return ErrBadTable.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBadTable, strings.Join(parts, "; "))
}

func (e *BadTableError) Unwrap() error {
	return ErrBadTable
}
