package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/pkg/adapters/file"
	loamAdapter "github.com/aretw0/transducer/pkg/adapters/loam"
	"github.com/aretw0/transducer/pkg/ports"
)

// ErrNoSource is returned when neither a file nor a directory was given.
var ErrNoSource = errors.New("a table is required: pass --file, --dir or a path argument")

// Source says where a table definition comes from.
type Source struct {
	File string // YAML, JSON or text definition
	Dir  string // Loam repository, one document per state
}

// SourceFromArgs fills an empty Source from a positional path argument,
// choosing File or Dir by what the path is.
func SourceFromArgs(src Source, args []string) (Source, error) {
	if src.File != "" || src.Dir != "" || len(args) == 0 {
		return src, nil
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return src, err
	}
	if info.IsDir() {
		src.Dir = args[0]
	} else {
		src.File = args[0]
	}
	return src, nil
}

// IsZero reports whether no location is set.
func (s Source) IsZero() bool {
	return s.File == "" && s.Dir == ""
}

// Loader returns the table loader for the source.
func (s Source) Loader() (ports.TableLoader, error) {
	switch {
	case s.File != "" && s.Dir != "":
		return nil, fmt.Errorf("--file and --dir cannot be used together")
	case s.File != "":
		return file.New(s.File), nil
	case s.Dir != "":
		return loamAdapter.Open(s.Dir)
	}
	return nil, ErrNoSource
}

// NewMachine loads the source and builds a machine with standard CLI conventions.
func NewMachine(ctx context.Context, src Source, logger *slog.Logger, opts ...transducer.Option) (*transducer.Machine, error) {
	loader, err := src.Loader()
	if err != nil {
		return nil, err
	}
	opts = append([]transducer.Option{transducer.WithLogger(logger)}, opts...)
	m, err := transducer.Load(ctx, loader, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing machine: %w", err)
	}
	return m, nil
}
