package transducer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/transducer/pkg/domain"
)

// Runner feeds a machine one input line at a time and writes one output line
// per input line. This allows for easy testing and integration with different
// frontends (CLI, pipes, files).
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Trace writes every step instead of just the translated line.
	Trace bool

	// KeepGoing reports bad input lines on Output and continues instead of
	// stopping at the first one. A malformed table always stops the run.
	KeepGoing bool
}

// NewRunner creates a Runner over the given streams.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run interprets every line of Input until EOF.
// Trailing carriage returns and newlines are not part of the input sequence.
// It returns the number of lines translated.
func (r *Runner) Run(m *Machine) (int, error) {
	if r.Input == nil {
		return 0, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return 0, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	scanner := bufio.NewScanner(r.Input)
	translated := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")

		if err := r.runLine(m, text); err != nil {
			if r.KeepGoing && !errors.Is(err, domain.ErrBadTable) {
				fmt.Fprintf(r.Output, "line %d: %v\n", line, err)
				continue
			}
			return translated, fmt.Errorf("line %d: %w", line, err)
		}
		translated++
	}
	if err := scanner.Err(); err != nil {
		return translated, fmt.Errorf("input error: %w", err)
	}
	return translated, nil
}

func (r *Runner) runLine(m *Machine, text string) error {
	if !r.Trace {
		out, err := m.Interpret(text)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.Output, out)
		return err
	}

	steps, err := m.Trace(text)
	if err != nil {
		return err
	}
	for _, s := range steps {
		if _, err := fmt.Fprintf(r.Output, "%d: %d --%c/%c--> %d\n", s.Position, s.State, s.Input, s.Output, s.NextState); err != nil {
			return err
		}
	}
	return nil
}
