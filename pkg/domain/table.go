package domain

import (
	"cmp"
	"slices"
)

// Table is an ordered set of deterministic transitions.
//
// Insertion order is kept for iteration only; lookups go through an index
// keyed by (state, input). At most one rule exists per pair.
// A Table is not safe for concurrent mutation.
type Table struct {
	transitions []*Transition
	index       map[Pair]*Transition
	validStates map[int]struct{}
	validInputs map[rune]struct{}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		index:       make(map[Pair]*Transition),
		validStates: make(map[int]struct{}),
		validInputs: make(map[rune]struct{}),
	}
}

// Add appends t to the table.
// It fails with ErrNonDeterministicTransition when t is nil or when a rule for
// the same (state, input) pair already exists; the table is left unchanged.
func (tb *Table) Add(t *Transition) error {
	if t == nil {
		return &NonDeterministicTransitionError{}
	}
	if existing, ok := tb.Lookup(t.CurrentState(), t.Input()); ok {
		return &NonDeterministicTransitionError{Rejected: t, Existing: existing}
	}

	tb.transitions = append(tb.transitions, t)
	tb.index[t.Key()] = t
	tb.validStates[t.CurrentState()] = struct{}{}
	tb.validInputs[t.Input()] = struct{}{}
	return nil
}

// Lookup returns the rule for (state, input), if any.
func (tb *Table) Lookup(state int, input rune) (*Transition, bool) {
	t, ok := tb.index[Pair{State: state, Input: input}]
	return t, ok
}

// Get returns the rule for (state, input).
// It fails with ErrBadInput when the state is unknown or the input has no rule
// from that state.
func (tb *Table) Get(state int, input rune) (*Transition, error) {
	t, ok := tb.Lookup(state, input)
	if !ok {
		return nil, &BadInputError{State: state, Input: input, Position: -1}
	}
	return t, nil
}

// Len reports the number of rules.
func (tb *Table) Len() int {
	return len(tb.transitions)
}

// Transitions returns the rules in insertion order.
func (tb *Table) Transitions() []*Transition {
	return slices.Clone(tb.transitions)
}

// States returns every state that appears as a source, sorted.
func (tb *Table) States() []int {
	states := make([]int, 0, len(tb.validStates))
	for s := range tb.validStates {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}

// Inputs returns the inferred input alphabet, sorted.
func (tb *Table) Inputs() []rune {
	inputs := make([]rune, 0, len(tb.validInputs))
	for i := range tb.validInputs {
		inputs = append(inputs, i)
	}
	slices.Sort(inputs)
	return inputs
}

// HasState reports whether state is the source of at least one rule.
func (tb *Table) HasState(state int) bool {
	_, ok := tb.validStates[state]
	return ok
}

// HasTransitionsToIllegalStates reports whether any rule moves into a state
// that is never the source of a rule.
func (tb *Table) HasTransitionsToIllegalStates() bool {
	for _, t := range tb.transitions {
		if !tb.HasState(t.NextState()) {
			return true
		}
	}
	return false
}

// IllegalTransitions returns the rules whose destination is undeclared, in
// insertion order.
func (tb *Table) IllegalTransitions() []*Transition {
	var illegal []*Transition
	for _, t := range tb.transitions {
		if !tb.HasState(t.NextState()) {
			illegal = append(illegal, t)
		}
	}
	return illegal
}

// HasMissingInputs reports whether some observed state lacks a rule for some
// observed input symbol.
func (tb *Table) HasMissingInputs() bool {
	for s := range tb.validStates {
		for i := range tb.validInputs {
			if _, ok := tb.Lookup(s, i); !ok {
				return true
			}
		}
	}
	return false
}

// MissingInputs returns every uncovered (state, input) pair, sorted by state
// then input.
func (tb *Table) MissingInputs() []Pair {
	var missing []Pair
	for s := range tb.validStates {
		for i := range tb.validInputs {
			if _, ok := tb.Lookup(s, i); !ok {
				missing = append(missing, Pair{State: s, Input: i})
			}
		}
	}
	slices.SortFunc(missing, func(a, b Pair) int {
		if c := cmp.Compare(a.State, b.State); c != 0 {
			return c
		}
		return cmp.Compare(a.Input, b.Input)
	})
	return missing
}

// Validate checks that the table can be interpreted.
// It returns a *BadTableError describing every problem, or nil.
func (tb *Table) Validate() error {
	illegal := tb.IllegalTransitions()
	missing := tb.MissingInputs()
	if len(illegal) == 0 && len(missing) == 0 {
		return nil
	}
	return &BadTableError{IllegalTransitions: illegal, MissingInputs: missing}
}
