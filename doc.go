/*
Package transducer is a deterministic finite-state transducer (FST).

A transducer reads a sequence of input symbols and writes exactly one output
symbol per input symbol. Its behavior is a transition table of rules
(state, input) -> (output, next state). The table guarantees determinism: at
most one rule may exist for any (state, input) pair.

# Concept

Rules are added one at a time. The source state of the first accepted rule
becomes the start state. Before interpreting, the machine checks the whole
table once:

  - every destination state must also be the source of some rule;
  - every observed state must have a rule for every observed input symbol.

A table that fails either check is rejected with ErrBadTable. A symbol that has
no rule from the current state fails with ErrBadInput. Interpretation is
all-or-nothing and always begins at the start state.

# Usage

	m := transducer.New(transducer.WithName("vowels"))

	for _, t := range []*domain.Transition{
		transducer.NewTransition(1, 'a', 'e', 1),
		transducer.NewTransition(1, 'b', 'o', 2),
		transducer.NewTransition(2, 'a', 'o', 2),
		transducer.NewTransition(2, 'b', 'e', 1),
	} {
		if err := m.AddTransition(t); err != nil {
			log.Fatal(err)
		}
	}

	out, err := m.Interpret("aba") // "eoo"

Tables can also be built with package dsl or loaded from YAML, JSON or text
definitions with package definition.
*/
package transducer
