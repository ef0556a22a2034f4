package ports

import (
	"context"

	"github.com/aretw0/transducer/pkg/definition"
)

// TableLoader defines how a transition table definition is obtained.
// This allows the source (a file, a Loam repository, memory) to be decoupled
// from the machine that consumes it.
type TableLoader interface {
	// Load returns a validated definition.
	Load(ctx context.Context) (*definition.Definition, error)
}

// TableLoaderFunc adapts a function to TableLoader.
type TableLoaderFunc func(ctx context.Context) (*definition.Definition, error)

// Load calls f(ctx).
func (f TableLoaderFunc) Load(ctx context.Context) (*definition.Definition, error) {
	return f(ctx)
}
