// File: pattern.go
// Title: Text Patterns
// Description: Defines the Pattern interface used by matchers to compare
//              option codes and values, with literal and regular expression
//              implementations.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

import (
	"regexp"
	"strings"
)

// Pattern matches a whole option code, option value or parameter text
type Pattern interface {
	Match(text string, caseSensitive bool) bool
}

// Text is a literal pattern. It matches only the complete text.
type Text string

// Match reports whether text equals the literal, folding case when
// caseSensitive is false
func (t Text) Match(text string, caseSensitive bool) bool {
	if caseSensitive {
		return string(t) == text
	}
	return strings.EqualFold(string(t), text)
}

// String returns the literal
func (t Text) String() string {
	return string(t)
}

// Regex is a regular expression pattern. The expression must match the
// complete text; it is anchored on both ends.
type Regex struct {
	expr        string
	sensitive   *regexp.Regexp
	insensitive *regexp.Regexp
}

// NewRegex compiles expr into a whole-text pattern
func NewRegex(expr string) (*Regex, error) {
	anchored := `^(?:` + expr + `)$`
	sensitive, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}
	insensitive, err := regexp.Compile(`(?i)` + anchored)
	if err != nil {
		return nil, err
	}
	return &Regex{expr: expr, sensitive: sensitive, insensitive: insensitive}, nil
}

// MustRegex is like NewRegex but panics if the expression cannot be compiled
func MustRegex(expr string) *Regex {
	r, err := NewRegex(expr)
	if err != nil {
		panic("cmdline: MustRegex(" + expr + "): " + err.Error())
	}
	return r
}

// Match reports whether the expression matches all of text
func (r *Regex) Match(text string, caseSensitive bool) bool {
	if caseSensitive {
		return r.sensitive.MatchString(text)
	}
	return r.insensitive.MatchString(text)
}

// String returns the expression as given to NewRegex
func (r *Regex) String() string {
	return r.expr
}
