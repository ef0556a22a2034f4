package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// VowelRules returns the two-state table used across tests: 'a' is echoed
// as 'e' in state 1 and as 'o' in state 2, 'b' switches state.
func VowelRules() []*domain.Transition {
	return []*domain.Transition{
		domain.NewTransition(1, 'a', 'e', 1),
		domain.NewTransition(1, 'b', 'o', 2),
		domain.NewTransition(2, 'a', 'o', 2),
		domain.NewTransition(2, 'b', 'e', 1),
	}
}
