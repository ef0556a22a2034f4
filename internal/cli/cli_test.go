package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/transducer/internal/config"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vowelsYAML = `name: vowels
transitions:
  - {from: 1, input: "a", output: "e", to: 1}
  - {from: 1, input: "b", output: "o", to: 2}
  - {from: 2, input: "a", output: "o", to: 2}
  - {from: 2, input: "b", output: "e", to: 1}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSource(t *testing.T) {
	_, err := Source{}.Loader()
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Source{File: "a", Dir: "b"}.Loader()
	assert.Error(t, err)

	path := writeFile(t, "m.yaml", vowelsYAML)
	src, err := SourceFromArgs(Source{}, []string{path})
	require.NoError(t, err)
	assert.Equal(t, path, src.File)

	dir := t.TempDir()
	src, err = SourceFromArgs(Source{}, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, src.Dir)

	src, err = SourceFromArgs(Source{File: "keep"}, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, Source{File: "keep"}, src)

	_, err = SourceFromArgs(Source{}, []string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestRun_Args(t *testing.T) {
	var out bytes.Buffer
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	err := Run(context.Background(), RunOptions{Source: src, Inputs: []string{"aba", "bb"}}, nil, &out, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "eoo\noe\n", out.String())
}

func TestRun_StdinTrace(t *testing.T) {
	var out bytes.Buffer
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	err := Run(context.Background(), RunOptions{Source: src, Trace: true}, strings.NewReader("ab\n"), &out, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "0: 1 --a/e--> 1\n1: 1 --b/o--> 2\n", out.String())
}

func TestRun_BadInput(t *testing.T) {
	var out bytes.Buffer
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	err := Run(context.Background(), RunOptions{Source: src, Inputs: []string{"abc"}}, nil, &out, logging.NewNop())
	assert.ErrorIs(t, err, domain.ErrBadInput)

	out.Reset()
	err = Run(context.Background(), RunOptions{Source: src, Inputs: []string{"abc", "a"}, KeepGoing: true}, nil, &out, logging.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "line 1: bad input")
	assert.True(t, strings.HasSuffix(out.String(), "e\n"))
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	err := Validate(context.Background(), Source{File: writeFile(t, "m.yaml", vowelsYAML)}, &out, logging.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Table is valid (4 transitions)")

	out.Reset()
	bad := writeFile(t, "bad.fst", "1 a e 2\n2 b e 9\n")
	err = Validate(context.Background(), Source{File: bad}, &out, logging.NewNop())
	assert.ErrorIs(t, err, domain.ErrBadTable)
	assert.Contains(t, out.String(), "illegal destination: (2, 'b') -> ('e', 9)")
	assert.Contains(t, out.String(), "missing input: (1, 'b')")
}

func TestGraph(t *testing.T) {
	var out bytes.Buffer
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	require.NoError(t, Graph(context.Background(), src, "", &out, logging.NewNop()))
	assert.Contains(t, out.String(), "[*] --> s1")
	assert.NotContains(t, out.String(), "visited")

	out.Reset()
	require.NoError(t, Graph(context.Background(), src, "ab", &out, logging.NewNop()))
	assert.Contains(t, out.String(), "class s2 current")

	assert.Error(t, Graph(context.Background(), src, "abc", &out, logging.NewNop()))
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	require.NoError(t, Inspect(context.Background(), src, &out, nil, logging.NewNop()))
	assert.Contains(t, out.String(), "# vowels")

	out.Reset()
	upper := func(s string) (string, error) { return strings.ToUpper(s), nil }
	require.NoError(t, Inspect(context.Background(), src, &out, upper, logging.NewNop()))
	assert.Contains(t, out.String(), "# VOWELS")
}

func TestLoamDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.md"), []byte(`---
transitions:
  - {input: "x", output: "y", to: 0}
---`), 0644))

	var out bytes.Buffer
	err := Run(context.Background(), RunOptions{Source: Source{Dir: dir}, Inputs: []string{"xx"}}, nil, &out, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "yy\n", out.String())
}

func TestNewManager(t *testing.T) {
	cfg := config.Server{LockTTL: time.Second}
	metrics := observability.NewMetrics()
	src := Source{File: writeFile(t, "m.yaml", vowelsYAML)}

	mgr, closeFn, err := NewManager(context.Background(), cfg, src, metrics, logging.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, []string{"vowels"}, mgr.Names())
	out, err := mgr.Interpret(context.Background(), "vowels", "ab")
	require.NoError(t, err)
	assert.Equal(t, "eo", out)
}

func TestNewManager_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.Server{LockTTL: time.Second, RedisAddr: mr.Addr(), RedisPrefix: "fst:"}
	mgr, closeFn, err := NewManager(context.Background(), cfg, Source{}, nil, logging.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.Empty(t, mgr.Names())
	_, err = mgr.AddTransition(context.Background(), "m", domain.NewTransition(0, 'a', 'b', 0))
	require.NoError(t, err)
	assert.False(t, mr.Exists("fst:lock:m"))
}

func TestNewManager_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err = NewManager(ctx, config.Server{LockTTL: time.Second, RedisAddr: addr}, Source{}, nil, logging.NewNop())
	assert.ErrorContains(t, err, "redis unavailable")
}
