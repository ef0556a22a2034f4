// Package file loads transition tables from definition files on disk.
package file

import (
	"context"
	"fmt"

	"github.com/aretw0/transducer/pkg/definition"
)

// Loader implements ports.TableLoader over a single YAML, JSON or text file.
// The format follows the file extension.
type Loader struct {
	Path string
}

// New creates a loader for path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and validates the definition. Every call reads the file again.
func (l *Loader) Load(ctx context.Context) (*definition.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Path == "" {
		return nil, fmt.Errorf("definition path cannot be empty")
	}
	return definition.LoadFile(l.Path)
}
