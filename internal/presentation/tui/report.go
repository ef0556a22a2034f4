package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/transducer/pkg/domain"
)

// Report builds a markdown description of a table: its rules and whether it
// can be interpreted.
func Report(name string, table *domain.Table, start *int) string {
	var sb strings.Builder

	title := name
	if title == "" {
		title = "transducer"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	startText := "none"
	if start != nil {
		startText = strconv.Itoa(*start)
	}
	fmt.Fprintf(&sb, "- **Start state:** %s\n", startText)
	fmt.Fprintf(&sb, "- **States:** %d\n", len(table.States()))
	fmt.Fprintf(&sb, "- **Inputs:** %s\n", symbolList(table.Inputs()))
	fmt.Fprintf(&sb, "- **Transitions:** %d\n\n", table.Len())

	if table.Len() > 0 {
		sb.WriteString("## Transitions\n\n")
		sb.WriteString("| From | Input | Output | To |\n")
		sb.WriteString("|-----:|:-----:|:------:|---:|\n")
		for _, t := range table.Transitions() {
			fmt.Fprintf(&sb, "| %d | %s | %s | %d |\n", t.CurrentState(), cell(t.Input()), cell(t.Output()), t.NextState())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Validation\n\n")
	var bad *domain.BadTableError
	if err := table.Validate(); !errors.As(err, &bad) {
		sb.WriteString("The table is well-formed.\n")
		return sb.String()
	}

	if len(bad.IllegalTransitions) > 0 {
		sb.WriteString("Transitions to states that have no rules:\n\n")
		for _, t := range bad.IllegalTransitions {
			fmt.Fprintf(&sb, "- `%s`\n", t)
		}
		sb.WriteString("\n")
	}
	if len(bad.MissingInputs) > 0 {
		sb.WriteString("Missing inputs:\n\n")
		for _, p := range bad.MissingInputs {
			fmt.Fprintf(&sb, "- state %d has no rule for %s\n", p.State, cell(p.Input))
		}
	}
	return sb.String()
}

func symbolList(rs []rune) string {
	if len(rs) == 0 {
		return "none"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = cell(r)
	}
	return strings.Join(parts, " ")
}

// cell renders a symbol as inline code that is safe inside a table row.
func cell(r rune) string {
	q := strconv.QuoteRune(r)
	if r == '|' {
		q = `'\|'`
	}
	if r == '`' {
		return "`` " + q + " ``"
	}
	return "`" + q + "`"
}
