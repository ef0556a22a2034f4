package runtime

import (
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/pkg/domain"
)

// Engine is the transducer interpreter.
// It owns one transition table and remembers the source state of the first
// rule ever accepted as its start state.
//
// Each call holds the engine lock for its whole duration, so adding rules and
// interpreting never interleave.
type Engine struct {
	mu       sync.Mutex
	table    *domain.Table
	start    int
	hasStart bool

	name   string
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// NewEngine creates an engine with an empty table.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		table:  domain.NewTable(),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddTransition adds t to the table.
// The first accepted rule fixes the start state.
func (e *Engine) AddTransition(t *domain.Transition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.Add(t); err != nil {
		e.logger.Debug("transition rejected", "err", err)
		if e.hooks.OnTransitionRejected != nil {
			e.hooks.OnTransitionRejected(&domain.TransitionEvent{
				EventBase:  e.event(domain.EventTransitionRejected),
				Transition: t,
				Err:        err,
			})
		}
		return err
	}

	if !e.hasStart {
		e.start = t.CurrentState()
		e.hasStart = true
		e.logger.Debug("start state fixed", "state", e.start)
	}

	e.logger.Debug("transition added", "transition", t.String(), "size", e.table.Len())
	if e.hooks.OnTransitionAdded != nil {
		e.hooks.OnTransitionAdded(&domain.TransitionEvent{
			EventBase:  e.event(domain.EventTransitionAdded),
			Transition: t,
		})
	}
	return nil
}

// Start returns the start state and whether one has been fixed yet.
func (e *Engine) Start() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.start, e.hasStart
}

// Snapshot returns a copy of the table in insertion order.
func (e *Engine) Snapshot() *domain.Table {
	e.mu.Lock()
	defer e.mu.Unlock()

	clone := domain.NewTable()
	for _, t := range e.table.Transitions() {
		// Rules were unique on the way in; they stay unique in the copy.
		_ = clone.Add(t)
	}
	return clone
}

// Validate reports whether the table can currently be interpreted.
func (e *Engine) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Validate()
}

// Interpret runs the machine over input and returns one output symbol per
// input symbol. Every call starts from the start state. Input that is not
// valid UTF-8 fails with domain.ErrBadInput at the first undecodable byte.
func (e *Engine) Interpret(input string) (string, error) {
	steps, err := e.TraceString(input)
	if err != nil {
		return "", err
	}
	return string(outputs(steps)), nil
}

// InterpretSymbols is Interpret over a symbol sequence.
func (e *Engine) InterpretSymbols(input []rune) ([]rune, error) {
	steps, err := e.Trace(input)
	if err != nil {
		return nil, err
	}
	return outputs(steps), nil
}

// TraceString is Trace over a UTF-8 string.
func (e *Engine) TraceString(input string) ([]domain.Step, error) {
	symbols, invalidAt := decode(input)
	return e.trace(symbols, invalidAt)
}

// Trace runs the machine like InterpretSymbols and returns every step taken.
// It fails with domain.ErrBadTable before consuming any symbol when the table
// has transitions to illegal states or missing inputs, and with
// domain.ErrBadInput when a symbol has no rule. Nothing is returned on failure,
// and step hooks only fire once the whole input has been translated.
func (e *Engine) Trace(input []rune) ([]domain.Step, error) {
	return e.trace(input, -1)
}

func (e *Engine) trace(input []rune, invalidAt int) ([]domain.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	began := e.now()
	if e.hooks.OnInterpretStart != nil {
		e.hooks.OnInterpretStart(&domain.InterpretEvent{
			EventBase: e.event(domain.EventInterpretStart),
			Input:     string(input),
		})
	}

	steps, err := e.run(input, invalidAt)

	if err != nil {
		e.logger.Warn("interpretation failed", "input_len", len(input), "err", err)
	} else {
		e.logger.Debug("interpretation finished", "input_len", len(input))
		if e.hooks.OnStep != nil {
			for _, step := range steps {
				e.hooks.OnStep(&domain.StepEvent{
					EventBase: e.event(domain.EventStep),
					Step:      step,
				})
			}
		}
	}
	if e.hooks.OnInterpretEnd != nil {
		ev := &domain.InterpretEvent{
			EventBase: e.event(domain.EventInterpretEnd),
			Input:     string(input),
			Err:       err,
			Took:      e.now().Sub(began),
		}
		if err == nil {
			ev.Output = string(outputs(steps))
		}
		e.hooks.OnInterpretEnd(ev)
	}
	return steps, err
}

// run translates input from the start state. invalidAt is the position of an
// undecodable symbol, or -1.
func (e *Engine) run(input []rune, invalidAt int) ([]domain.Step, error) {
	if e.table.HasTransitionsToIllegalStates() {
		return nil, &domain.BadTableError{IllegalTransitions: e.table.IllegalTransitions()}
	}
	if e.table.HasMissingInputs() {
		return nil, &domain.BadTableError{MissingInputs: e.table.MissingInputs()}
	}

	steps := make([]domain.Step, 0, len(input))
	state := e.start
	for pos, symbol := range input {
		if pos == invalidAt {
			return nil, &domain.BadInputError{State: state, Input: symbol, Position: pos}
		}
		t, ok := e.table.Lookup(state, symbol)
		if !ok {
			return nil, &domain.BadInputError{State: state, Input: symbol, Position: pos}
		}
		steps = append(steps, domain.Step{
			Position:  pos,
			State:     state,
			Input:     symbol,
			Output:    t.Output(),
			NextState: t.NextState(),
		})
		state = t.NextState()
	}
	return steps, nil
}

// decode splits s into symbols and reports the index of the first symbol
// that is not valid UTF-8, or -1.
func decode(s string) ([]rune, int) {
	symbols := make([]rune, 0, len(s))
	invalidAt := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 && invalidAt < 0 {
			invalidAt = len(symbols)
		}
		symbols = append(symbols, r)
		i += size
	}
	return symbols, invalidAt
}

func outputs(steps []domain.Step) []rune {
	out := make([]rune, len(steps))
	for i, s := range steps {
		out[i] = s.Output
	}
	return out
}

func (e *Engine) event(kind domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      kind,
		Machine:   e.name,
	}
}
