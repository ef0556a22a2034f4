/*
Package dsl provides a fluent builder for transition tables.

It lets callers define a transducer in Go instead of a YAML, JSON or text
definition, which is handy for tests and generated tables.

Example usage:

	b := dsl.New()
	b.Start(1).
		Loop('a', 'e').
		On('b', 'o', 2)
	b.State(2).
		Loop('a', 'o').
		On('b', 'e', 1)

	m, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	out, _ := m.Interpret("aba") // "eoo"
*/
package dsl
