// Package summary parses the CSA server's free-form nested BEGIN/END
// game-summary block (component F of the protocol client) into a
// generic tree, then decodes that tree into a typed GameSummary.
package summary

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reBegin    = regexp.MustCompile(`^BEGIN (\S+)$`)
	reEnd      = regexp.MustCompile(`^END (\S+)$`)
	reKeyValue = regexp.MustCompile(`^([\w+-]+):(.*)$`)
)

// ParseError reports a line that matches neither BEGIN, END, nor
// key:value — a protocol error per §4.F.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("game summary: unrecognized line %q", e.Line)
}

// Parse parses lines (ending with the literal "END Game_Summary") into a
// tree of nested maps. Position is a special case: its body is preserved
// verbatim as a single newline-joined string rather than recursively
// parsed, so the protocol client can later hand it to the record reader.
func Parse(lines []string) (map[string]any, error) {
	pos := 0
	tree, err := parseBlock(lines, &pos)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func parseBlock(lines []string, pos *int) (map[string]any, error) {
	d := map[string]any{}

	for *pos < len(lines) {
		line := lines[*pos]

		if m := reEnd.FindStringSubmatch(line); m != nil {
			// Let the caller (which opened the matching BEGIN) consume this.
			return d, nil
		}

		if m := reBegin.FindStringSubmatch(line); m != nil {
			tag := m[1]
			*pos++
			if tag == "Position" {
				body, err := readVerbatimUntil(lines, pos, tag)
				if err != nil {
					return nil, err
				}
				d[tag] = body
				continue
			}
			sub, err := parseBlock(lines, pos)
			if err != nil {
				return nil, err
			}
			if err := expectEnd(lines, pos, tag); err != nil {
				return nil, err
			}
			d[tag] = sub
			continue
		}

		if m := reKeyValue.FindStringSubmatch(line); m != nil {
			d[m[1]] = m[2]
			*pos++
			continue
		}

		return nil, &ParseError{Line: line}
	}

	return d, nil
}

// readVerbatimUntil collects lines up to (not including) "END tag",
// advancing pos past that line too, and joins them with newlines.
func readVerbatimUntil(lines []string, pos *int, tag string) (string, error) {
	end := "END " + tag
	var buf []string
	for *pos < len(lines) {
		if lines[*pos] == end {
			*pos++
			return strings.Join(buf, "\n"), nil
		}
		buf = append(buf, lines[*pos])
		*pos++
	}
	return "", fmt.Errorf("game summary: unterminated block %q", tag)
}

func expectEnd(lines []string, pos *int, tag string) error {
	end := "END " + tag
	if *pos >= len(lines) || lines[*pos] != end {
		return fmt.Errorf("game summary: expected %q", end)
	}
	*pos++
	return nil
}
