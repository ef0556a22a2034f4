package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/transducer/pkg/definition"
)

// Loader adapts a Loam repository to ports.TableLoader.
// Every document describes one state and its outgoing rules.
type Loader struct {
	Repo *loam.TypedRepository[StateMetadata]
	Name string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StateMetadata], name string) *Loader {
	return &Loader{
		Repo: repo,
		Name: name,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
// The definition is named after the directory.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers consistent across JSON and Markdown documents.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	typedRepo := loam.NewTypedRepository[StateMetadata](repo)
	return New(typedRepo, filepath.Base(absPath)), nil
}

type stateDoc struct {
	id    int
	path  string
	start bool
	rules []RuleMetadata
}

// Load lists every state document and assembles a definition.
// Rules are ordered by state number with the start state first.
// Documents without a state field whose name is not a number are ignored.
//
// The listing only supplies document IDs; each document is read back with Get
// because the list index can hold stale metadata for freshly saved documents.
func (l *Loader) Load(ctx context.Context) (*definition.Definition, error) {
	entries, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[int]string)
	states := make([]stateDoc, 0, len(entries))
	var start *int

	for _, entry := range entries {
		doc, err := l.Repo.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", entry.ID, err)
		}
		doc.ID = entry.ID

		id, ok := stateID(doc.ID, doc.Data)
		if !ok {
			continue
		}

		if existingPath, dup := seen[id]; dup {
			return nil, fmt.Errorf("collision detected: state %d is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		if doc.Data.Start {
			if start != nil {
				return nil, fmt.Errorf("multiple start states: %d ('%s') and %d ('%s')", *start, seen[*start], id, doc.ID)
			}
			s := id
			start = &s
		}

		states = append(states, stateDoc{id: id, path: doc.ID, start: doc.Data.Start, rules: doc.Data.Transitions})
	}

	sort.Slice(states, func(i, j int) bool {
		if states[i].start != states[j].start {
			return states[i].start
		}
		return states[i].id < states[j].id
	})

	def := &definition.Definition{Name: l.Name, Start: start}
	for _, s := range states {
		for _, r := range s.rules {
			def.Transitions = append(def.Transitions, definition.Rule{
				From:   s.id,
				Input:  r.Input,
				Output: r.Output,
				To:     r.To,
			})
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// stateID resolves the state number from the metadata or the document name.
func stateID(docID string, meta StateMetadata) (int, bool) {
	if meta.State != nil {
		return *meta.State, true
	}
	n, err := strconv.Atoi(trimExtension(filepath.Base(docID)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
