package dsl

import (
	"testing"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_TwoStateMachine(t *testing.T) {
	b := New()
	b.State(1).
		Loop('a', 'e').
		On('b', 'o', 2).
		State(2).
		Loop('a', 'o').
		On('b', 'e', 1)

	m, err := b.Build()
	require.NoError(t, err)

	out, err := m.Interpret("aba")
	require.NoError(t, err)
	assert.Equal(t, "eoo", out)
}

func TestBuilder_StartReordersRules(t *testing.T) {
	b := New()
	b.State(2).On('x', '2', 1)
	b.Start(1).On('x', '1', 2)

	rules := b.Transitions()
	require.Len(t, rules, 2)
	assert.Equal(t, 1, rules[0].CurrentState())

	m, err := b.Build()
	require.NoError(t, err)
	start, _ := m.Start()
	assert.Equal(t, 1, start)

	out, err := m.Interpret("xxx")
	require.NoError(t, err)
	assert.Equal(t, "121", out)
}

func TestBuilder_Echo(t *testing.T) {
	b := New()
	b.State(0).Echo('0', '1')

	table, err := b.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.False(t, table.HasMissingInputs())
	assert.False(t, table.HasTransitionsToIllegalStates())
}

func TestBuilder_Conflicts(t *testing.T) {
	b := New()
	b.State(1).Loop('a', 'e').Loop('a', 'o').Loop('b', 'x').Loop('b', 'y')

	_, err := b.Table()
	assert.ErrorIs(t, err, domain.ErrNonDeterministicTransition)

	m := transducer.New()
	err = b.Apply(m)
	assert.ErrorIs(t, err, domain.ErrNonDeterministicTransition)
	// The non-conflicting rules were still applied.
	assert.Equal(t, 2, m.Table().Len())

	_, err = b.Build()
	assert.Error(t, err)
}

func TestBuilder_StateReuse(t *testing.T) {
	b := New()
	assert.Same(t, b.State(3), b.State(3))
	assert.Equal(t, 3, b.State(3).ID())
}
