package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/internal/presentation/graph"
	"github.com/aretw0/transducer/internal/presentation/tui"
	"github.com/aretw0/transducer/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Source    Source
	Inputs    []string // interpreted in order; stdin is read when empty
	Trace     bool
	KeepGoing bool
}

// Run interprets every input and writes one output line per input.
func Run(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, logger *slog.Logger) error {
	m, err := NewMachine(ctx, opts.Source, logger)
	if err != nil {
		return err
	}

	if len(opts.Inputs) > 0 {
		in = strings.NewReader(strings.Join(opts.Inputs, "\n") + "\n")
	}
	runner := transducer.NewRunner(in, out)
	runner.Trace = opts.Trace
	runner.KeepGoing = opts.KeepGoing

	n, err := runner.Run(m)
	logger.Debug("run finished", "lines", n)
	return err
}

// Validate loads the source and reports whether its table can be interpreted.
func Validate(ctx context.Context, src Source, out io.Writer, logger *slog.Logger) error {
	m, err := NewMachine(ctx, src, logger)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		fmt.Fprintln(out, tui.Failure("Table is malformed"))
		var bad *domain.BadTableError
		if errors.As(err, &bad) {
			for _, t := range bad.IllegalTransitions {
				fmt.Fprintf(out, "  illegal destination: %s\n", t)
			}
			for _, p := range bad.MissingInputs {
				fmt.Fprintf(out, "  missing input: %s\n", p)
			}
		}
		return err
	}
	fmt.Fprintln(out, tui.Success(fmt.Sprintf("Table is valid (%d transitions)", m.Table().Len())))
	return nil
}

// Graph writes the Mermaid diagram of the source. When input is set, the
// states it visits are highlighted.
func Graph(ctx context.Context, src Source, input string, out io.Writer, logger *slog.Logger) error {
	m, err := NewMachine(ctx, src, logger)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if input != "" {
		steps, err := m.Trace(input)
		if err != nil {
			return fmt.Errorf("overlay run failed: %w", err)
		}
		overlay = graph.OverlayFromTrace(steps)
	}

	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	_, err = fmt.Fprint(out, graph.GenerateMermaid(m.Table(), start, overlay))
	return err
}

// Inspect writes a markdown report of the source. render is applied to the
// markdown when set, such as a glamour renderer on a terminal.
func Inspect(ctx context.Context, src Source, out io.Writer, render func(string) (string, error), logger *slog.Logger) error {
	m, err := NewMachine(ctx, src, logger)
	if err != nil {
		return err
	}

	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	report := tui.Report(m.Name, m.Table(), start)
	if render != nil {
		if report, err = render(report); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	_, err = fmt.Fprint(out, report)
	return err
}
