package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/transducer/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	VisitedStates []int
	CurrentState  *int
}

// OverlayFromTrace marks every state a run went through and where it stopped.
func OverlayFromTrace(steps []domain.Step) *Overlay {
	if len(steps) == 0 {
		return nil
	}
	o := &Overlay{}
	for _, s := range steps {
		o.VisitedStates = append(o.VisitedStates, s.State)
	}
	last := steps[len(steps)-1].NextState
	o.CurrentState = &last
	return o
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 from a transition table.
// It applies semantic styling:
// - Start: entered from [*]
// - Destinations that have no rules of their own: "illegal" class
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(table *domain.Table, start *int, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, s := range table.States() {
		fmt.Fprintf(&sb, "    state \"%d\" as %s\n", s, stateID(s))
	}

	illegal := make(map[int]bool)
	for _, t := range table.IllegalTransitions() {
		if !illegal[t.NextState()] {
			illegal[t.NextState()] = true
			fmt.Fprintf(&sb, "    state \"%d\" as %s\n", t.NextState(), stateID(t.NextState()))
		}
	}

	if start != nil {
		fmt.Fprintf(&sb, "    [*] --> %s\n", stateID(*start))
	}

	for _, t := range table.Transitions() {
		fmt.Fprintf(&sb, "    %s --> %s : %s/%s\n",
			stateID(t.CurrentState()), stateID(t.NextState()),
			label(t.Input()), label(t.Output()))
	}

	if len(illegal) > 0 {
		sb.WriteString("\n    classDef illegal fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000\n")
		for _, t := range table.IllegalTransitions() {
			if illegal[t.NextState()] {
				delete(illegal, t.NextState())
				fmt.Fprintf(&sb, "    class %s illegal\n", stateID(t.NextState()))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		visited := make(map[int]bool)
		for _, s := range overlay.VisitedStates {
			if !visited[s] {
				visited[s] = true
				fmt.Fprintf(&sb, "    class %s visited\n", stateID(s))
			}
		}
		if overlay.CurrentState != nil {
			fmt.Fprintf(&sb, "    class %s current\n", stateID(*overlay.CurrentState))
		}
	}

	return sb.String()
}

func stateID(s int) string {
	if s < 0 {
		return "s_" + strconv.Itoa(-s)
	}
	return "s" + strconv.Itoa(s)
}

// label renders a symbol for an edge label. Characters that end a Mermaid
// label or a statement become entity codes.
func label(r rune) string {
	switch {
	case r == ':' || r == ';' || r == '#' || r == '/' || r == ' ':
		return fmt.Sprintf("#%d;", r)
	case !unicode.IsPrint(r):
		q := strconv.QuoteRune(r)
		return q[1 : len(q)-1]
	}
	return string(r)
}
