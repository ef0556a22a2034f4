package definition

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/transducer/internal/runtime"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(i int) *int { return &i }

func interpret(t *testing.T, ts []*domain.Transition, input string) string {
	t.Helper()
	e := runtime.NewEngine()
	for _, tr := range ts {
		require.NoError(t, e.AddTransition(tr))
	}
	out, err := e.Interpret(input)
	require.NoError(t, err)
	return out
}

func TestLoadFile_YAML(t *testing.T) {
	def, err := LoadFile(filepath.Join("testdata", "vowels.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "vowels", def.Name)
	require.NotNil(t, def.Start)
	assert.Equal(t, 1, *def.Start)
	assert.Len(t, def.Transitions, 4)

	ts, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, "eoo", interpret(t, ts, "aba"))
}

func TestLoadFile_Text(t *testing.T) {
	def, err := LoadFile(filepath.Join("testdata", "counter.fst"))
	require.NoError(t, err)
	assert.Equal(t, "counter", def.Name, "name defaults to the file stem")

	ts, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, "12300", interpret(t, ts, "11122"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{"name":"id","transitions":[{"from":0,"input":"x","output":"y","to":0}]}`)

	def, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []Rule{{From: 0, Input: "x", Output: "y", To: 0}}, def.Transitions)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		count  int
	}{
		{"no rules yaml", FormatYAML, "name: empty\n", 1},
		{"multi-char symbols", FormatYAML, "transitions:\n  - {from: 1, input: ab, output: '', to: 1}\n", 2},
		{"unknown start", FormatYAML, "start: 9\ntransitions:\n  - {from: 1, input: a, output: b, to: 1}\n", 1},
		{"text field count", FormatText, "1 a b\n2 a\n", 2},
		{"text bad state", FormatText, "x a b 1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Len(t, Errors(err), tt.count)
		})
	}
}

func TestParse_RuleErrorDetails(t *testing.T) {
	_, err := Parse([]byte("transitions:\n  - {from: 1, input: a, output: xy, to: 1}\n"), FormatYAML)

	var ruleErr *RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, 0, ruleErr.Index)
	assert.Equal(t, "output", ruleErr.Field)
}

func TestParse_TextLiterals(t *testing.T) {
	data := []byte("name spaced out\n1 ' ' '_' 1 # space to underscore\n1 '#' '\\'' 1\n1 é e 1\n")

	def, err := Parse(data, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "spaced out", def.Name)
	assert.Equal(t, []Rule{
		{From: 1, Input: " ", Output: "_", To: 1},
		{From: 1, Input: "#", Output: "'", To: 1},
		{From: 1, Input: "é", Output: "e", To: 1},
	}, def.Transitions)
}

func TestParse_TextUnterminated(t *testing.T) {
	_, err := Parse([]byte("1 'a b 1\n"), FormatText)
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	raw := map[string]any{
		"name":  "digits",
		"start": 2,
		"transitions": []any{
			map[string]any{"from": 1, "input": 0, "output": 1, "to": 2},
			map[string]any{"from": 2, "input": "0", "output": "0", "to": 1},
		},
	}

	def, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "0", def.Transitions[0].Input)

	ts, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, ts[0].CurrentState(), "start state rules come first")
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(map[string]any{"transitions": "nope"})
	assert.Error(t, err)
}

func TestMarshal_RoundTripFormats(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(domain.NewTransition(1, ' ', '#', 2)))
	require.NoError(t, table.Add(domain.NewTransition(2, 'a', 'b', 1)))
	def := FromTable("demo", table, ptr(1))

	for _, format := range []Format{FormatYAML, FormatJSON, FormatText} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(def, format)
			require.NoError(t, err)

			back, err := Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, def, back)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	assert.Equal(t, FormatText, FormatFromPath("t.fst"))
	assert.Equal(t, FormatYAML, FormatFromPath("t.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("t"))

	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
