package definition

import "fmt"

// RuleError reports a problem with one rule of a definition.
type RuleError struct {
	Index  int    // zero-based rule position, -1 for definition-level problems
	Field  string // offending field name
	Reason string
}

func (e *RuleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("rule %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// AggregateError represents multiple definition problems.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d definition errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Errors returns all problems if err is an AggregateError.
// Otherwise returns nil.
func Errors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
