// File: parser.go
// Title: Command Line Parser
// Description: Parser configuration, the matcher registry and the Parse
//              entry point. Scanning is implemented in scanner.go and
//              matcher resolution in resolver.go.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial parser implementation

package cmdline

import (
	"errors"
	"fmt"
	"sync"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
	pmlog "github.com/msto63/parmacl/foundation/core/log"
)

// Default configuration values
const (
	DefaultQuoteChar                                  = '"'
	DefaultOptionCodesCaseSensitive                   = false
	DefaultMultiCharOptionCodeRequiresDoubleAnnouncer = false
	DefaultOptionValuesCaseSensitive                  = false
	DefaultOptionValuesCanStartWithOptionAnnouncer    = false
	DefaultParamsCaseSensitive                        = false
	DefaultParamsCanStartWithOptionAnnouncer          = false
	DefaultEmbedQuoteCharWithDouble                   = true

	// NoEscapeChar disables escaping
	NoEscapeChar rune = 0
	// DefaultEscapeChar is NoEscapeChar
	DefaultEscapeChar = NoEscapeChar
)

// DefaultOptionAnnouncerChars returns the default option announcers
func DefaultOptionAnnouncerChars() []rune { return []rune{'-'} }

// DefaultOptionValueAnnouncerChars returns the default value announcers
func DefaultOptionValueAnnouncerChars() []rune { return []rune{' '} }

// DefaultParseTerminateChars returns the default terminate characters
func DefaultParseTerminateChars() []rune { return []rune{'<', '>', '|'} }

// Parser parses command lines using an ordered list of matchers.
//
// The exported settings must not be changed while a Parse call is running.
// Matcher registry methods are safe to call concurrently with Parse; they
// wait for in-flight parses to finish.
type Parser[O, P any] struct {
	// QuoteChar encloses parameters and option values containing whitespace
	QuoteChar rune
	// OptionAnnouncerChars start an option
	OptionAnnouncerChars                       []rune
	OptionCodesCaseSensitive                   bool
	MultiCharOptionCodeRequiresDoubleAnnouncer bool
	// OptionValueAnnouncerChars separate an option code from its value.
	// A whitespace announcer is ambiguous: it may also end the option.
	OptionValueAnnouncerChars               []rune
	OptionValuesCaseSensitive               bool
	OptionValuesCanStartWithOptionAnnouncer bool
	ParamsCaseSensitive                     bool
	ParamsCanStartWithOptionAnnouncer       bool
	// EmbedQuoteCharWithDouble reads two quote chars inside quotes as one
	EmbedQuoteCharWithDouble bool
	// EscapeChar makes the next character literal; NoEscapeChar disables it
	EscapeChar rune
	// ParseTerminateChars end parsing when found outside quotes; the rest of
	// the line is ignored
	ParseTerminateChars []rune

	Logger *pmlog.Logger

	mu       sync.RWMutex
	matchers []*Matcher[O, P]
	fallback *Matcher[O, P]
}

// New creates a parser with default settings and no matchers
func New[O, P any]() *Parser[O, P] {
	return &Parser[O, P]{
		QuoteChar:                                  DefaultQuoteChar,
		OptionAnnouncerChars:                       DefaultOptionAnnouncerChars(),
		OptionCodesCaseSensitive:                   DefaultOptionCodesCaseSensitive,
		MultiCharOptionCodeRequiresDoubleAnnouncer: DefaultMultiCharOptionCodeRequiresDoubleAnnouncer,
		OptionValueAnnouncerChars:                  DefaultOptionValueAnnouncerChars(),
		OptionValuesCaseSensitive:                  DefaultOptionValuesCaseSensitive,
		OptionValuesCanStartWithOptionAnnouncer:    DefaultOptionValuesCanStartWithOptionAnnouncer,
		ParamsCaseSensitive:                        DefaultParamsCaseSensitive,
		ParamsCanStartWithOptionAnnouncer:          DefaultParamsCanStartWithOptionAnnouncer,
		EmbedQuoteCharWithDouble:                   DefaultEmbedQuoteCharWithDouble,
		EscapeChar:                                 DefaultEscapeChar,
		ParseTerminateChars:                        DefaultParseTerminateChars(),
		Logger:                                     pmlog.GetDefault().WithField("component", "cmdline-parser"),
		fallback:                                   &Matcher[O, P]{OptionHasValue: DefaultOptionHasValue},
	}
}

// AddMatcher appends a matcher. Matchers added earlier take priority.
func (p *Parser[O, P]) AddMatcher(m *Matcher[O, P]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.matchers = append(p.matchers, m)
}

// RemoveMatcher removes the matcher at index. Results of earlier parses
// keep pointing at the removed matcher.
func (p *Parser[O, P]) RemoveMatcher(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.matchers) {
		return pmerror.New(fmt.Sprintf("matcher index %d out of range [0,%d)", index, len(p.matchers))).
			WithCode(pmerror.CodeValueOutOfRange).
			WithOperation("cmdline.RemoveMatcher").
			WithDetail("index", index).
			WithDetail("count", len(p.matchers))
	}

	p.matchers = append(p.matchers[:index:index], p.matchers[index+1:]...)
	return nil
}

// ClearMatchers removes all matchers; later parses use the fallback matcher
func (p *Parser[O, P]) ClearMatchers() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.matchers = nil
}

// Matchers returns a copy of the matcher list in priority order
func (p *Parser[O, P]) Matchers() []*Matcher[O, P] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*Matcher[O, P], len(p.matchers))
	copy(result, p.matchers)
	return result
}

// FallbackMatcher returns the matcher used when the list is empty
func (p *Parser[O, P]) FallbackMatcher() *Matcher[O, P] {
	return p.fallback
}

// Parse parses line into options and parameters in input order. On failure
// it returns a *ParseError and no arguments.
func (p *Parser[O, P]) Parse(line string) ([]Arg[O, P], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	logger := p.logger()
	logger.Debug("Parsing command line", pmlog.Fields{
		"length":   len(line),
		"matchers": len(p.matchers),
	})

	matchers := p.matchers
	if len(matchers) == 0 {
		matchers = []*Matcher[O, P]{p.fallback}
	}

	s := newScanner(p, matchers)
	if err := s.run(line); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			logger.Debug("Command line rejected", pmlog.Fields{
				"error_id":        pe.ID.String(),
				"line_char_index": pe.LineCharIndex,
				"arg_index":       pe.ArgIndex,
			})
		}
		return nil, err
	}

	logger.Debug("Command line parsed", pmlog.Fields{
		"args":    len(s.args),
		"options": s.optionCount,
		"params":  s.paramCount,
	})
	return s.args, nil
}

func (p *Parser[O, P]) logger() *pmlog.Logger {
	if p.Logger == nil {
		return pmlog.Discard()
	}
	return p.Logger
}

func (p *Parser[O, P]) isOptionAnnouncer(r rune) bool {
	return containsRune(p.OptionAnnouncerChars, r)
}

func (p *Parser[O, P]) isValueAnnouncer(r rune) bool {
	return containsRune(p.OptionValueAnnouncerChars, r)
}

func (p *Parser[O, P]) isTerminateChar(r rune) bool {
	return containsRune(p.ParseTerminateChars, r)
}

func (p *Parser[O, P]) isEscapeChar(r rune) bool {
	return p.EscapeChar != NoEscapeChar && r == p.EscapeChar
}

func containsRune(set []rune, r rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
