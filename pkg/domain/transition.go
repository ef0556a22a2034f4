package domain

import "fmt"

// Transition is a single rule of a transition table: when the machine is in
// CurrentState and reads Input, it emits Output and moves to NextState.
//
// A Transition is immutable once built. Two Transitions with the same fields
// are duplicates as far as a Table is concerned, but remain distinct values.
type Transition struct {
	currentState int
	input        rune
	output       rune
	nextState    int
}

// NewTransition builds a rule.
func NewTransition(currentState int, input, output rune, nextState int) *Transition {
	return &Transition{
		currentState: currentState,
		input:        input,
		output:       output,
		nextState:    nextState,
	}
}

// CurrentState is the state the rule fires from.
func (t *Transition) CurrentState() int { return t.currentState }

// Input is the symbol the rule consumes.
func (t *Transition) Input() rune { return t.input }

// Output is the symbol the rule emits.
func (t *Transition) Output() rune { return t.output }

// NextState is the state the machine moves to after firing.
func (t *Transition) NextState() int { return t.nextState }

// Key returns the (state, input) pair the rule is indexed by.
func (t *Transition) Key() Pair {
	return Pair{State: t.currentState, Input: t.input}
}

func (t *Transition) String() string {
	return fmt.Sprintf("(%d, %q) -> (%q, %d)", t.currentState, t.input, t.output, t.nextState)
}

// Pair identifies a (state, input) combination.
type Pair struct {
	State int
	Input rune
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d, %q)", p.State, p.Input)
}
