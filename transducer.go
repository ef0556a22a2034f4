package transducer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/internal/runtime"
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/ports"
)

// Re-exported errors so callers do not need to import pkg/domain for errors.Is.
var (
	ErrNonDeterministicTransition = domain.ErrNonDeterministicTransition
	ErrBadInput                   = domain.ErrBadInput
	ErrBadTable                   = domain.ErrBadTable
)

// Machine is the high-level entry point of the library.
// It wraps the internal runtime and is safe for concurrent use.
type Machine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring a Machine.
type Option func(*Machine)

// WithName labels the machine in logs and lifecycle events.
func WithName(name string) Option {
	return func(m *Machine) {
		m.Name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Hooks from repeated
// options are all kept.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// NewTransition builds a rule.
func NewTransition(currentState int, input, output rune, nextState int) *domain.Transition {
	return domain.NewTransition(currentState, input, output, nextState)
}

// NewTable creates an empty transition table.
func NewTable() *domain.Table {
	return domain.NewTable()
}

// New creates a machine with an empty table.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.Name != "" {
		m.logger = m.logger.With("machine", m.Name)
	}

	m.runtime = runtime.NewEngine(
		runtime.WithName(m.Name),
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(m.hooks),
	)
	return m
}

// FromTransitions creates a machine and adds every rule in order.
// It stops at the first rejected rule.
func FromTransitions(ts []*domain.Transition, opts ...Option) (*Machine, error) {
	m := New(opts...)
	for _, t := range ts {
		if err := m.AddTransition(t); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromDefinition creates a machine from a serialized definition.
// The machine is named after the definition unless WithName is given.
func FromDefinition(def *definition.Definition, opts ...Option) (*Machine, error) {
	ts, err := def.Build()
	if err != nil {
		return nil, err
	}
	if def.Name != "" {
		opts = append([]Option{WithName(def.Name)}, opts...)
	}
	return FromTransitions(ts, opts...)
}

// Load fetches a definition from loader and builds a machine from it.
func Load(ctx context.Context, loader ports.TableLoader, opts ...Option) (*Machine, error) {
	def, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition: %w", err)
	}
	return FromDefinition(def, opts...)
}

// AddTransition adds a rule. It fails with ErrNonDeterministicTransition when
// t is nil or its (state, input) pair is already taken. The first accepted rule
// fixes the start state.
func (m *Machine) AddTransition(t *domain.Transition) error {
	return m.runtime.AddTransition(t)
}

// Interpret translates input symbol by symbol, starting from the start state.
// It fails with ErrBadTable when the table is malformed and with ErrBadInput
// when a symbol has no rule or the input is not valid UTF-8.
func (m *Machine) Interpret(input string) (string, error) {
	return m.runtime.Interpret(input)
}

// InterpretSymbols is Interpret over a symbol sequence.
func (m *Machine) InterpretSymbols(input []rune) ([]rune, error) {
	return m.runtime.InterpretSymbols(input)
}

// Trace interprets input and returns each step taken.
func (m *Machine) Trace(input string) ([]domain.Step, error) {
	return m.runtime.TraceString(input)
}

// Start returns the start state and whether one has been fixed.
func (m *Machine) Start() (int, bool) {
	return m.runtime.Start()
}

// Table returns a copy of the current transition table.
func (m *Machine) Table() *domain.Table {
	return m.runtime.Snapshot()
}

// Validate reports whether the table can be interpreted, without consuming
// any input.
func (m *Machine) Validate() error {
	return m.runtime.Validate()
}
