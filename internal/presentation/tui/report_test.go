package tui

import (
	"testing"

	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, rules ...*domain.Transition) *domain.Table {
	t.Helper()
	tbl := domain.NewTable()
	for _, r := range rules {
		require.NoError(t, tbl.Add(r))
	}
	return tbl
}

func TestReport_WellFormed(t *testing.T) {
	start := 1
	tbl := build(t,
		domain.NewTransition(1, 'a', 'e', 1),
		domain.NewTransition(1, 'b', 'o', 2),
		domain.NewTransition(2, 'a', 'o', 2),
		domain.NewTransition(2, 'b', 'e', 1),
	)

	md := Report("vowels", tbl, &start)
	assert.Contains(t, md, "# vowels")
	assert.Contains(t, md, "**Start state:** 1")
	assert.Contains(t, md, "**Inputs:** `'a'` `'b'`")
	assert.Contains(t, md, "| 1 | `'b'` | `'o'` | 2 |")
	assert.Contains(t, md, "The table is well-formed.")
}

func TestReport_Problems(t *testing.T) {
	tbl := build(t,
		domain.NewTransition(1, 'a', 'e', 2),
		domain.NewTransition(2, 'b', 'e', 9),
	)

	md := Report("", tbl, nil)
	assert.Contains(t, md, "# transducer")
	assert.Contains(t, md, "**Start state:** none")
	assert.Contains(t, md, "(2, 'b') -> ('e', 9)")
	assert.Contains(t, md, "state 1 has no rule for `'b'`")
	assert.Contains(t, md, "state 2 has no rule for `'a'`")
	assert.NotContains(t, md, "well-formed")
}

func TestReport_Empty(t *testing.T) {
	md := Report("empty", domain.NewTable(), nil)
	assert.Contains(t, md, "**Inputs:** none")
	assert.NotContains(t, md, "## Transitions")
	assert.Contains(t, md, "well-formed")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "`'a'`", cell('a'))
	assert.Equal(t, "`'\\|'`", cell('|'))
	assert.Equal(t, "`'\\n'`", cell('\n'))
	assert.Equal(t, "`` '`' ``", cell('`'))
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}
