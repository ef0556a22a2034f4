package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransitionAdded    EventType = "transition_added"
	EventTransitionRejected EventType = "transition_rejected"
	EventInterpretStart     EventType = "interpret_start"
	EventInterpretEnd       EventType = "interpret_end"
	EventStep               EventType = "step"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine,omitempty"`
}

// TransitionEvent is fired when a rule is offered to a machine.
type TransitionEvent struct {
	EventBase
	Transition *Transition `json:"-"`
	Err        error       `json:"-"`
}

// InterpretEvent brackets an interpretation.
type InterpretEvent struct {
	EventBase
	Input  string        `json:"input"`
	Output string        `json:"output,omitempty"`
	Err    error         `json:"-"`
	Took   time.Duration `json:"took,omitempty"`
}

// StepEvent is fired for every consumed symbol.
type StepEvent struct {
	EventBase
	Step Step `json:"step"`
}

// Step records one move of the machine.
type Step struct {
	Position  int  `json:"position"`
	State     int  `json:"state"`
	Input     rune `json:"input"`
	Output    rune `json:"output"`
	NextState int  `json:"next_state"`
}

// LifecycleHooks defines callbacks for interpreter observability.
// Any of them may be nil. Hooks run synchronously under the machine lock and
// must not call back into the machine.
type LifecycleHooks struct {
	OnTransitionAdded    func(*TransitionEvent)
	OnTransitionRejected func(*TransitionEvent)
	OnInterpretStart     func(*InterpretEvent)
	OnInterpretEnd       func(*InterpretEvent)
	OnStep               func(*StepEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransitionAdded:    chain(h.OnTransitionAdded, other.OnTransitionAdded),
		OnTransitionRejected: chain(h.OnTransitionRejected, other.OnTransitionRejected),
		OnInterpretStart:     chain(h.OnInterpretStart, other.OnInterpretStart),
		OnInterpretEnd:       chain(h.OnInterpretEnd, other.OnInterpretEnd),
		OnStep:               chain(h.OnStep, other.OnStep),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
