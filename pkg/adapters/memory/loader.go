package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/transducer/pkg/definition"
)

// Loader implements ports.TableLoader from bytes or a definition held in memory.
type Loader struct {
	def *definition.Definition
}

// NewLoader parses raw definition data once, up front.
func NewLoader(data []byte, format definition.Format) (*Loader, error) {
	def, err := definition.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return &Loader{def: def}, nil
}

// NewFromDefinition wraps an existing definition.
// This handles validation automatically, improving DX for tests.
func NewFromDefinition(def *definition.Definition) (*Loader, error) {
	if def == nil {
		return nil, fmt.Errorf("definition is nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Loader{def: def}, nil
}

// Load returns a copy of the held definition.
func (l *Loader) Load(ctx context.Context) (*definition.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cp := *l.def
	cp.Transitions = append([]definition.Rule(nil), l.def.Transitions...)
	if l.def.Start != nil {
		start := *l.def.Start
		cp.Start = &start
	}
	return &cp, nil
}
