package definition

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The text format has one rule per line:
//
//	# comment
//	name vowels
//	start 1
//	1 a e 1
//	1 ' ' _ 2
//
// Symbols containing spaces, '#' or quotes are written as Go rune literals.

func parseText(data []byte) (*Definition, error) {
	def := &Definition{}
	var errs []error

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, err := splitFields(scanner.Text())
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "name":
			def.Name = strings.Join(fields[1:], " ")
			continue
		case "start":
			if len(fields) != 2 {
				errs = append(errs, fmt.Errorf("line %d: start takes exactly one state", lineNo))
				continue
			}
			s, err := strconv.Atoi(fields[1])
			if err != nil {
				errs = append(errs, fmt.Errorf("line %d: invalid start state %q", lineNo, fields[1]))
				continue
			}
			def.Start = &s
			continue
		}

		if len(fields) != 4 {
			errs = append(errs, fmt.Errorf("line %d: expected <from> <input> <output> <to>, got %d fields", lineNo, len(fields)))
			continue
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: invalid state %q", lineNo, fields[0]))
			continue
		}
		to, err := strconv.Atoi(fields[3])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: invalid state %q", lineNo, fields[3]))
			continue
		}
		def.Transitions = append(def.Transitions, Rule{From: from, Input: fields[1], Output: fields[2], To: to})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text definition: %w", err)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return def, nil
}

// splitFields splits on whitespace, honouring rune literals and stopping at an
// unquoted '#'.
func splitFields(line string) ([]string, error) {
	var fields []string
	rs := []rune(line)
	for i := 0; i < len(rs); {
		switch {
		case unicode.IsSpace(rs[i]):
			i++
		case rs[i] == '#':
			return fields, nil
		case rs[i] == '\'':
			j := i + 1
			for j < len(rs) && rs[j] != '\'' {
				if rs[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("unterminated symbol literal")
			}
			r, _, tail, err := strconv.UnquoteChar(string(rs[i+1:j]), '\'')
			if err != nil || tail != "" {
				return nil, fmt.Errorf("invalid symbol literal %s", string(rs[i:j+1]))
			}
			fields = append(fields, string(r))
			i = j + 1
		default:
			j := i
			for j < len(rs) && !unicode.IsSpace(rs[j]) {
				j++
			}
			fields = append(fields, string(rs[i:j]))
			i = j
		}
	}
	return fields, nil
}

func formatText(def *Definition) []byte {
	var buf bytes.Buffer
	if def.Name != "" {
		fmt.Fprintf(&buf, "name %s\n", def.Name)
	}
	if def.Start != nil {
		fmt.Fprintf(&buf, "start %d\n", *def.Start)
	}
	for _, r := range def.Transitions {
		fmt.Fprintf(&buf, "%d %s %s %d\n", r.From, quoteSymbol(r.Input), quoteSymbol(r.Output), r.To)
	}
	return buf.Bytes()
}

func quoteSymbol(s string) string {
	rs := []rune(s)
	if len(rs) != 1 {
		return s
	}
	r := rs[0]
	if unicode.IsSpace(r) || r == '#' || r == '\'' || !unicode.IsPrint(r) {
		return strconv.QuoteRune(r)
	}
	return s
}
