package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/transducer/internal/presentation/graph"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, rules ...*domain.Transition) *domain.Table {
	t.Helper()
	tbl := domain.NewTable()
	for _, r := range rules {
		require.NoError(t, tbl.Add(r))
	}
	return tbl
}

func TestGenerateMermaid(t *testing.T) {
	one, two := 1, 2
	tests := []struct {
		name     string
		table    []*domain.Transition
		start    *int
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "states, start marker and edges",
			table: []*domain.Transition{
				domain.NewTransition(1, 'a', 'e', 1),
				domain.NewTransition(1, 'b', 'o', 2),
				domain.NewTransition(2, 'a', 'o', 2),
			},
			start: &one,
			contains: []string{
				"stateDiagram-v2\n",
				`state "1" as s1`,
				`state "2" as s2`,
				"[*] --> s1",
				"s1 --> s1 : a/e",
				"s1 --> s2 : b/o",
				"s2 --> s2 : a/o",
			},
			excludes: []string{"classDef illegal", "Overlay"},
		},
		{
			name:     "no start marker without start",
			table:    []*domain.Transition{domain.NewTransition(1, 'a', 'e', 1)},
			excludes: []string{"[*]"},
		},
		{
			name:  "illegal destinations are highlighted",
			table: []*domain.Transition{domain.NewTransition(1, 'a', 'e', 3)},
			start: &one,
			contains: []string{
				`state "3" as s3`,
				"classDef illegal",
				"class s3 illegal",
			},
		},
		{
			name:     "negative states and special symbols",
			table:    []*domain.Transition{domain.NewTransition(-1, ':', ' ', -1)},
			contains: []string{`state "-1" as s_1`, "s_1 --> s_1 : #58;/#32;"},
		},
		{
			name:    "overlay",
			table:   []*domain.Transition{domain.NewTransition(1, 'b', 'o', 2), domain.NewTransition(2, 'b', 'e', 1)},
			overlay: &graph.Overlay{VisitedStates: []int{1, 2, 1}, CurrentState: &two},
			contains: []string{
				"classDef visited",
				"class s1 visited",
				"class s2 visited",
				"class s2 current",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(table(t, tt.table...), tt.start, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_VisitedOnce(t *testing.T) {
	tbl := table(t, domain.NewTransition(1, 'a', 'a', 1))
	got := graph.GenerateMermaid(tbl, nil, &graph.Overlay{VisitedStates: []int{1, 1, 1}})
	assert.Equal(t, 1, strings.Count(got, "class s1 visited"))
}

func TestOverlayFromTrace(t *testing.T) {
	assert.Nil(t, graph.OverlayFromTrace(nil))

	o := graph.OverlayFromTrace([]domain.Step{
		{Position: 0, State: 1, Input: 'b', Output: 'o', NextState: 2},
		{Position: 1, State: 2, Input: 'a', Output: 'o', NextState: 2},
	})
	require.NotNil(t, o)
	assert.Equal(t, []int{1, 2}, o.VisitedStates)
	require.NotNil(t, o.CurrentState)
	assert.Equal(t, 2, *o.CurrentState)
}
