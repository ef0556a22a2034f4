package dsl

import "github.com/aretw0/transducer/pkg/domain"

// StateBuilder provides a fluent API for the rules leaving one state.
type StateBuilder struct {
	id      int
	builder *Builder
}

// On adds the rule (state, input) -> (output, next).
func (s *StateBuilder) On(input, output rune, next int) *StateBuilder {
	s.builder.rules = append(s.builder.rules, domain.NewTransition(s.id, input, output, next))
	return s
}

// Loop adds a rule that stays in the current state.
func (s *StateBuilder) Loop(input, output rune) *StateBuilder {
	return s.On(input, output, s.id)
}

// Echo adds self loops that copy each input symbol to the output.
func (s *StateBuilder) Echo(inputs ...rune) *StateBuilder {
	for _, in := range inputs {
		s.Loop(in, in)
	}
	return s
}

// State switches to another source state, for chaining.
func (s *StateBuilder) State(id int) *StateBuilder {
	return s.builder.State(id)
}

// ID returns the source state.
func (s *StateBuilder) ID() int {
	return s.id
}
