package definition

import (
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/transducer/pkg/domain"
)

// Definition is the serializable form of a transition table.
// Symbols are single-character strings so the same struct maps cleanly onto
// YAML, JSON and generic maps.
type Definition struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`

	// Start, when set, is the state whose rules are added first so that it
	// becomes the machine's start state. Otherwise the first rule decides.
	Start *int `yaml:"start,omitempty" json:"start,omitempty" mapstructure:"start"`

	Transitions []Rule `yaml:"transitions" json:"transitions" mapstructure:"transitions"`
}

// Rule is one row of a definition.
type Rule struct {
	From   int    `yaml:"from" json:"from" mapstructure:"from"`
	Input  string `yaml:"input" json:"input" mapstructure:"input"`
	Output string `yaml:"output" json:"output" mapstructure:"output"`
	To     int    `yaml:"to" json:"to" mapstructure:"to"`
}

// Validate checks every rule for single-symbol input and output.
// It reports all problems at once through *AggregateError.
// Determinism is not checked here; that is the table's job.
func (d *Definition) Validate() error {
	var errs []error
	if len(d.Transitions) == 0 {
		errs = append(errs, &RuleError{Index: -1, Field: "transitions", Reason: "at least one rule is required"})
	}
	for i, r := range d.Transitions {
		if err := checkSymbol(r.Input); err != "" {
			errs = append(errs, &RuleError{Index: i, Field: "input", Reason: err})
		}
		if err := checkSymbol(r.Output); err != "" {
			errs = append(errs, &RuleError{Index: i, Field: "output", Reason: err})
		}
	}
	if d.Start != nil && len(d.Transitions) > 0 {
		found := false
		for _, r := range d.Transitions {
			if r.From == *d.Start {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, &RuleError{Index: -1, Field: "start", Reason: fmt.Sprintf("state %d has no rules", *d.Start)})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func checkSymbol(s string) string {
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return "symbol is empty"
	case n > 1:
		return fmt.Sprintf("symbol %q must be a single character", s)
	}
	if !utf8.ValidString(s) {
		return "symbol is not valid UTF-8"
	}
	return ""
}

// Build converts the rules into domain transitions, start state first.
func (d *Definition) Build() ([]*domain.Transition, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	convert := func(r Rule) *domain.Transition {
		in, _ := utf8.DecodeRuneInString(r.Input)
		out, _ := utf8.DecodeRuneInString(r.Output)
		return domain.NewTransition(r.From, in, out, r.To)
	}

	ts := make([]*domain.Transition, 0, len(d.Transitions))
	if d.Start != nil {
		for _, r := range d.Transitions {
			if r.From == *d.Start {
				ts = append(ts, convert(r))
			}
		}
	}
	for _, r := range d.Transitions {
		if d.Start != nil && r.From == *d.Start {
			continue
		}
		ts = append(ts, convert(r))
	}
	return ts, nil
}

// FromTable exports a table. start may be nil.
func FromTable(name string, table *domain.Table, start *int) *Definition {
	d := &Definition{Name: name, Start: start}
	for _, t := range table.Transitions() {
		d.Transitions = append(d.Transitions, Rule{
			From:   t.CurrentState(),
			Input:  string(t.Input()),
			Output: string(t.Output()),
			To:     t.NextState(),
		})
	}
	return d
}
