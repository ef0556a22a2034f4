package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/pkg/domain"
)

// Builder manages the table construction.
type Builder struct {
	states map[int]*StateBuilder
	rules  []*domain.Transition
	start  *int
}

// New creates a new table builder.
func New() *Builder {
	return &Builder{
		states: make(map[int]*StateBuilder),
	}
}

// State returns the builder for a source state.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(id int) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	return sb
}

// Start marks the start state. Its rules are emitted first so the machine
// picks it up from the first accepted rule.
func (b *Builder) Start(id int) *StateBuilder {
	b.start = &id
	return b.State(id)
}

// Transitions returns the rules in emission order.
func (b *Builder) Transitions() []*domain.Transition {
	if b.start == nil {
		return append([]*domain.Transition(nil), b.rules...)
	}
	ordered := make([]*domain.Transition, 0, len(b.rules))
	for _, r := range b.rules {
		if r.CurrentState() == *b.start {
			ordered = append(ordered, r)
		}
	}
	for _, r := range b.rules {
		if r.CurrentState() != *b.start {
			ordered = append(ordered, r)
		}
	}
	return ordered
}

// Apply adds every rule to dst, reporting all conflicts at once.
func (b *Builder) Apply(dst interface {
	AddTransition(*domain.Transition) error
}) error {
	var errs []error
	for _, r := range b.Transitions() {
		if err := dst.AddTransition(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Table compiles the rules into a transition table.
func (b *Builder) Table() (*domain.Table, error) {
	table := domain.NewTable()
	var errs []error
	for _, r := range b.Transitions() {
		if err := table.Add(r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build table: %w", errors.Join(errs...))
	}
	return table, nil
}

// Build compiles the rules into a ready machine.
func (b *Builder) Build(opts ...transducer.Option) (*transducer.Machine, error) {
	m := transducer.New(opts...)
	if err := b.Apply(m); err != nil {
		return nil, fmt.Errorf("failed to build machine: %w", err)
	}
	return m, nil
}
