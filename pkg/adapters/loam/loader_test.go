package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/transducer/internal/testutils"
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	for filename, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, filename), []byte(content), 0644))
	}
	return New(loam.NewTypedRepository[StateMetadata](repo), "test")
}

func TestLoader_Load(t *testing.T) {
	loader := seed(t, map[string]string{
		"1.md": `---
transitions:
  - {input: "a", output: "e", to: 1}
  - {input: "b", output: "o", to: 2}
---
Vowels stay as they are.`,
		"2.md": `---
transitions:
  - {input: "a", output: "o", to: 2}
  - {input: "b", output: "e", to: 1}
---
Vowels are swapped.`,
		"README.md": `---
title: notes
---
Not a state.`,
	})

	def, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test", def.Name)
	assert.Nil(t, def.Start)
	assert.Equal(t, []definition.Rule{
		{From: 1, Input: "a", Output: "e", To: 1},
		{From: 1, Input: "b", Output: "o", To: 2},
		{From: 2, Input: "a", Output: "o", To: 2},
		{From: 2, Input: "b", Output: "e", To: 1},
	}, def.Transitions)
}

func TestLoader_StartStateComesFirst(t *testing.T) {
	loader := seed(t, map[string]string{
		"low.md": `---
state: 1
transitions:
  - {input: "x", output: "y", to: 9}
---`,
		"high.md": `---
state: 9
start: true
transitions:
  - {input: "x", output: "z", to: 1}
---`,
	})

	def, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, def.Start)
	assert.Equal(t, 9, *def.Start)
	assert.Equal(t, 9, def.Transitions[0].From)

	ts, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, 9, ts[0].CurrentState())
}

func TestLoader_SavedDocuments(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{
		ID: "0.md",
		Content: `---
transitions:
  - {input: "1", output: "0", to: 0}
  - {input: "0", output: "1", to: 0}
---
Bit flipper.`,
	}))

	require.NoError(t, repo.Save(ctx, core.Document{
		ID:      "1.md",
		Content: "---\nstate: 1\ntransitions:\n  - {input: \"1\", output: \"1\", to: 0}\n---\n",
	}))

	def, err := New(loam.NewTypedRepository[StateMetadata](repo), "flip").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []definition.Rule{
		{From: 0, Input: "1", Output: "0", To: 0},
		{From: 0, Input: "0", Output: "1", To: 0},
		{From: 1, Input: "1", Output: "1", To: 0},
	}, def.Transitions)
}

func TestLoader_DetectsCollisions(t *testing.T) {
	loader := seed(t, map[string]string{
		"one.md": `---
state: 1
transitions:
  - {input: "a", output: "a", to: 1}
---`,
		"1.md": `---
transitions:
  - {input: "b", output: "b", to: 1}
---`,
	})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_RejectsMultipleStarts(t *testing.T) {
	loader := seed(t, map[string]string{
		"1.md": `---
start: true
transitions:
  - {input: "a", output: "a", to: 2}
---`,
		"2.md": `---
start: true
transitions:
  - {input: "a", output: "a", to: 1}
---`,
	})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple start states")
}

func TestLoader_InvalidSymbols(t *testing.T) {
	loader := seed(t, map[string]string{
		"1.md": `---
transitions:
  - {input: "ab", output: "", to: 1}
---`,
	})

	_, err := loader.Load(context.Background())
	assert.Len(t, definition.Errors(err), 2)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.md"), []byte(`---
transitions:
  - {input: "a", output: "b", to: 3}
---`), 0644))

	loader, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), loader.Name)

	def, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, def.Transitions[0].From)
}
