package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AddAndGet(t *testing.T) {
	table := domain.NewTable()
	tr := domain.NewTransition(1, 'a', '.', 2)

	require.NoError(t, table.Add(tr))

	got, err := table.Get(1, 'a')
	require.NoError(t, err)
	assert.Same(t, tr, got)
	assert.Equal(t, 1, table.Len())
}

func TestTable_AddDuplicate(t *testing.T) {
	table := domain.NewTable()
	first := domain.NewTransition(1, 'a', '.', 2)
	second := domain.NewTransition(1, 'a', '.', 2)
	require.NoError(t, table.Add(first))

	err := table.Add(second)
	require.ErrorIs(t, err, domain.ErrNonDeterministicTransition)

	var ndErr *domain.NonDeterministicTransitionError
	require.True(t, errors.As(err, &ndErr))
	assert.Same(t, second, ndErr.Rejected)
	assert.Same(t, first, ndErr.Existing)

	// Table unchanged.
	assert.Equal(t, 1, table.Len())
	got, err := table.Get(1, 'a')
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestTable_AddDuplicatePairDifferentTarget(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(domain.NewTransition(1, 'a', 'x', 1)))

	err := table.Add(domain.NewTransition(1, 'a', 'y', 7))
	assert.ErrorIs(t, err, domain.ErrNonDeterministicTransition)
	assert.Equal(t, []int{1}, table.States())
}

func TestTable_AddNil(t *testing.T) {
	table := domain.NewTable()

	err := table.Add(nil)
	require.ErrorIs(t, err, domain.ErrNonDeterministicTransition)
	assert.Contains(t, err.Error(), "nil")
	assert.Zero(t, table.Len())
}

func TestTable_GetMissing(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(domain.NewTransition(1, 'a', '.', 2)))

	tests := []struct {
		name  string
		state int
		input rune
	}{
		{"unknown state", 2, 'a'},
		{"unknown input", 1, 'b'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Get(tt.state, tt.input)
			assert.Nil(t, got)
			require.ErrorIs(t, err, domain.ErrBadInput)

			var badInput *domain.BadInputError
			require.True(t, errors.As(err, &badInput))
			assert.Equal(t, tt.state, badInput.State)
			assert.Equal(t, tt.input, badInput.Input)
			assert.Equal(t, -1, badInput.Position)
		})
	}
}

func TestTable_Lookup(t *testing.T) {
	table := domain.NewTable()
	tr := domain.NewTransition(4, 'z', 'q', 4)
	require.NoError(t, table.Add(tr))

	got, ok := table.Lookup(4, 'z')
	assert.True(t, ok)
	assert.Same(t, tr, got)

	_, ok = table.Lookup(4, 'q')
	assert.False(t, ok)
}

func TestTable_InsertionOrderAndDerivedSets(t *testing.T) {
	table := domain.NewTable()
	rules := []*domain.Transition{
		domain.NewTransition(2, 'b', 'e', 1),
		domain.NewTransition(1, 'a', 'e', 2),
		domain.NewTransition(1, 'b', 'o', 1),
	}
	for _, r := range rules {
		require.NoError(t, table.Add(r))
	}

	assert.Equal(t, rules, table.Transitions())
	assert.Equal(t, []int{1, 2}, table.States())
	assert.Equal(t, []rune{'a', 'b'}, table.Inputs())

	// The returned slice is a copy.
	got := table.Transitions()
	got[0] = nil
	assert.Same(t, rules[0], table.Transitions()[0])
}

func TestTable_HasTransitionsToIllegalStates(t *testing.T) {
	tests := []struct {
		name  string
		rules []*domain.Transition
		want  bool
	}{
		{
			name: "empty table",
			want: false,
		},
		{
			name: "closed table",
			rules: []*domain.Transition{
				domain.NewTransition(1, 'a', 'e', 2),
				domain.NewTransition(2, 'b', 'e', 1),
			},
			want: false,
		},
		{
			name: "destination never declared",
			rules: []*domain.Transition{
				domain.NewTransition(1, 'a', '.', 3),
				domain.NewTransition(2, 'b', '_', 1),
			},
			want: true,
		},
		{
			name: "self loop",
			rules: []*domain.Transition{
				domain.NewTransition(5, 'a', 'a', 5),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.NewTable()
			for _, r := range tt.rules {
				require.NoError(t, table.Add(r))
			}
			assert.Equal(t, tt.want, table.HasTransitionsToIllegalStates())
			assert.Equal(t, tt.want, len(table.IllegalTransitions()) > 0)
		})
	}
}

func TestTable_HasMissingInputs(t *testing.T) {
	tests := []struct {
		name  string
		rules []*domain.Transition
		want  []domain.Pair
	}{
		{
			name: "empty table",
		},
		{
			name: "single transition",
			rules: []*domain.Transition{
				domain.NewTransition(1, 'a', 'e', 2),
			},
		},
		{
			name: "complete over one state",
			rules: []*domain.Transition{
				domain.NewTransition(1, 'a', 'e', 2),
				domain.NewTransition(1, 'b', 'e', 1),
			},
		},
		{
			name: "each state misses the other's input",
			rules: []*domain.Transition{
				domain.NewTransition(1, 'a', 'e', 2),
				domain.NewTransition(2, 'b', 'e', 1),
			},
			want: []domain.Pair{{State: 1, Input: 'b'}, {State: 2, Input: 'a'}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.NewTable()
			for _, r := range tt.rules {
				require.NoError(t, table.Add(r))
			}
			assert.Equal(t, len(tt.want) > 0, table.HasMissingInputs())
			assert.Equal(t, tt.want, table.MissingInputs())
		})
	}
}

func TestTable_Validate(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(domain.NewTransition(1, 'a', 'e', 1)))
	require.NoError(t, table.Validate())

	require.NoError(t, table.Add(domain.NewTransition(1, 'b', 'o', 3)))
	require.NoError(t, table.Add(domain.NewTransition(2, 'a', 'o', 1)))

	err := table.Validate()
	require.ErrorIs(t, err, domain.ErrBadTable)

	var badTable *domain.BadTableError
	require.True(t, errors.As(err, &badTable))
	require.Len(t, badTable.IllegalTransitions, 1)
	assert.Equal(t, 3, badTable.IllegalTransitions[0].NextState())
	assert.Equal(t, []domain.Pair{{State: 2, Input: 'b'}}, badTable.MissingInputs)
	assert.Contains(t, err.Error(), "illegal states")
	assert.Contains(t, err.Error(), "missing inputs")
}
