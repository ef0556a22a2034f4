package http

import (
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
)

// InterpretRequest is the body of POST /interpret and POST /machines/{name}/interpret.
// Definition is only read by the stateless endpoint.
type InterpretRequest struct {
	Definition *definition.Definition `json:"definition,omitempty"`
	Input      string                 `json:"input"`
	Trace      bool                   `json:"trace,omitempty"`
}

// InterpretResponse carries the translated sequence.
type InterpretResponse struct {
	Output string `json:"output"`
	Steps  []Step `json:"steps,omitempty"`
}

// Step is the wire form of domain.Step.
type Step struct {
	Position  int    `json:"position"`
	State     int    `json:"state"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	NextState int    `json:"next_state"`
}

// ValidateResponse reports whether a table can be interpreted.
type ValidateResponse struct {
	Valid              bool              `json:"valid"`
	Errors             []string          `json:"errors,omitempty"`
	IllegalTransitions []definition.Rule `json:"illegal_transitions,omitempty"`
	MissingInputs      []MissingInput    `json:"missing_inputs,omitempty"`
}

// MissingInput names a (state, input) pair without a rule.
type MissingInput struct {
	State int    `json:"state"`
	Input string `json:"input"`
}

// MachineInfo summarizes a registered machine.
type MachineInfo struct {
	Name        string `json:"name"`
	Start       *int   `json:"start,omitempty"`
	Transitions int    `json:"transitions"`
	Valid       bool   `json:"valid"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	State    *int   `json:"state,omitempty"`
	Input    string `json:"input,omitempty"`
	Position *int   `json:"position,omitempty"`
}

func mapSteps(steps []domain.Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{
			Position:  s.Position,
			State:     s.State,
			Input:     string(s.Input),
			Output:    string(s.Output),
			NextState: s.NextState,
		}
	}
	return out
}

func outputOf(steps []domain.Step) string {
	out := make([]rune, len(steps))
	for i, s := range steps {
		out[i] = s.Output
	}
	return string(out)
}

func mapRule(t *domain.Transition) definition.Rule {
	return definition.Rule{
		From:   t.CurrentState(),
		Input:  string(t.Input()),
		Output: string(t.Output()),
		To:     t.NextState(),
	}
}
