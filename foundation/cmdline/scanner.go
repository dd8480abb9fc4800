// File: scanner.go
// Title: Command Line Scanner
// Description: Two-level state machine that walks a command line one code
//              point at a time, collects option codes, option values and
//              parameters, and hands completed arguments to the resolver.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

import (
	"strings"
	"unicode"
)

type argState int

const (
	stateOutside argState = iota
	stateInParam
	stateInParamAtClosingQuote
	stateInParamEscaped
	stateInOption
)

// optionState is only meaningful while in stateInOption
type optionState int

const (
	optionJustAnnounced optionState = iota
	optionInCode
	optionAwaitingValue
	optionInValue
	optionInValueAtClosingQuote
	optionInValueEscaped
)

// scanner holds the state of a single Parse call
type scanner[O, P any] struct {
	p        *Parser[O, P]
	matchers []*Matcher[O, P]

	state       argState
	optionState optionState

	charIndex  int // code point index of the current character
	argStart   int // code point index where the current argument started
	valueStart int // code point index where the current option value started

	announcer rune
	rawCode   []rune
	code      string
	value     strings.Builder
	quoted    bool

	// the value announcer of the current option was whitespace
	valueAnnouncerAmbiguous bool
	// the current option value may turn out to be a parameter
	valueMayBeParam bool

	argCount    int
	optionCount int
	paramCount  int

	args       []Arg[O, P]
	terminated bool
}

func newScanner[O, P any](p *Parser[O, P], matchers []*Matcher[O, P]) *scanner[O, P] {
	return &scanner[O, P]{p: p, matchers: matchers}
}

func (s *scanner[O, P]) run(line string) error {
	index := 0
	for _, r := range line {
		s.charIndex = index
		if err := s.step(r); err != nil {
			return err
		}
		if s.terminated {
			return nil
		}
		index++
	}
	s.charIndex = index
	return s.finish()
}

// step dispatches r on the current state. Transitions that "replay" a
// character call step again with the same rune after changing state.
func (s *scanner[O, P]) step(r rune) error {
	switch s.state {
	case stateOutside:
		s.stepOutside(r)
		return nil
	case stateInParam:
		return s.stepInParam(r)
	case stateInParamAtClosingQuote:
		return s.stepInParamAtClosingQuote(r)
	case stateInParamEscaped:
		s.value.WriteRune(r)
		s.state = stateInParam
		return nil
	default:
		return s.stepInOption(r)
	}
}

func (s *scanner[O, P]) stepOutside(r rune) {
	switch {
	case r == s.p.QuoteChar:
		s.beginParam(true)
	case s.p.isOptionAnnouncer(r):
		s.state = stateInOption
		s.optionState = optionJustAnnounced
		s.announcer = r
		s.argStart = s.charIndex
		s.rawCode = s.rawCode[:0]
		s.code = ""
	case s.p.isTerminateChar(r):
		s.terminated = true
	case unicode.IsSpace(r):
	default:
		s.beginParam(false)
		s.value.WriteRune(r)
	}
}

func (s *scanner[O, P]) beginParam(quoted bool) {
	s.state = stateInParam
	s.argStart = s.charIndex
	s.value.Reset()
	s.quoted = quoted
}

func (s *scanner[O, P]) stepInParam(r rune) error {
	if s.p.isEscapeChar(r) {
		s.state = stateInParamEscaped
		return nil
	}
	if s.quoted {
		if r == s.p.QuoteChar {
			s.state = stateInParamAtClosingQuote
		} else {
			s.value.WriteRune(r)
		}
		return nil
	}

	switch {
	case unicode.IsSpace(r):
		return s.endParam(r)
	case s.p.isTerminateChar(r):
		return s.endParam(r)
	default:
		s.value.WriteRune(r)
		return nil
	}
}

func (s *scanner[O, P]) stepInParamAtClosingQuote(r rune) error {
	switch {
	case r == s.p.QuoteChar && s.p.EmbedQuoteCharWithDouble:
		s.value.WriteRune(r)
		s.state = stateInParam
		return nil
	case unicode.IsSpace(r), s.p.isTerminateChar(r):
		return s.endParam(r)
	default:
		return s.fail(ErrQuotedParamNotFollowedByWhitespace, s.value.String())
	}
}

// endParam emits the current parameter and replays the delimiter outside
func (s *scanner[O, P]) endParam(delimiter rune) error {
	if err := s.emitParam(); err != nil {
		return err
	}
	s.state = stateOutside
	s.stepOutside(delimiter)
	return nil
}

func (s *scanner[O, P]) stepInOption(r rune) error {
	switch s.optionState {
	case optionJustAnnounced:
		if unicode.IsSpace(r) || s.p.isTerminateChar(r) {
			if err := s.loneAnnouncer(); err != nil {
				return err
			}
			s.stepOutside(r)
			return nil
		}
		s.optionState = optionInCode
		return s.step(r)

	case optionInCode:
		return s.stepInCode(r)

	case optionAwaitingValue:
		return s.stepAwaitingValue(r)

	case optionInValue:
		return s.stepInValue(r)

	case optionInValueAtClosingQuote:
		switch {
		case r == s.p.QuoteChar && s.p.EmbedQuoteCharWithDouble:
			s.value.WriteRune(r)
			s.optionState = optionInValue
			return nil
		case unicode.IsSpace(r), s.p.isTerminateChar(r):
			return s.endOptionValue(r)
		default:
			return s.fail(ErrQuotedOptionValueNotFollowedByWhitespace, s.code)
		}

	default: // optionInValueEscaped
		s.value.WriteRune(r)
		s.optionState = optionInValue
		return nil
	}
}

// loneAnnouncer handles an announcer followed directly by a delimiter or the
// end of the line. It is a parameter if the parser allows parameters to
// start with an announcer.
func (s *scanner[O, P]) loneAnnouncer() error {
	if !s.p.ParamsCanStartWithOptionAnnouncer {
		return s.fail(ErrNoCodeAfterOptionAnnouncer, string(s.announcer))
	}
	s.value.Reset()
	s.value.WriteRune(s.announcer)
	for _, c := range s.rawCode {
		s.value.WriteRune(c)
	}
	s.quoted = false
	if err := s.emitParam(); err != nil {
		return err
	}
	s.state = stateOutside
	return nil
}

func (s *scanner[O, P]) isCodeBoundary(r rune) bool {
	return s.p.isValueAnnouncer(r) ||
		unicode.IsSpace(r) ||
		s.p.isTerminateChar(r) ||
		r == s.p.QuoteChar
}

func (s *scanner[O, P]) stepInCode(r rune) error {
	if !s.isCodeBoundary(r) {
		s.rawCode = append(s.rawCode, r)
		return nil
	}

	valueAnnounced := s.p.isValueAnnouncer(r)
	if err := s.setCode(); err != nil {
		return err
	}
	if s.code == "" {
		if valueAnnounced && !unicode.IsSpace(r) {
			return s.fail(ErrNoCodeAfterOptionAnnouncer, string(s.announcer)+string(s.rawCode))
		}
		if err := s.loneAnnouncer(); err != nil {
			return err
		}
		s.stepOutside(r)
		return nil
	}

	if !valueAnnounced {
		if err := s.emitOption(false); err != nil {
			return err
		}
		s.state = stateOutside
		s.stepOutside(r)
		return nil
	}

	s.valueAnnouncerAmbiguous = unicode.IsSpace(r)
	switch {
	case s.canOptionHaveValue():
		s.optionState = optionAwaitingValue
		return nil
	case s.valueAnnouncerAmbiguous:
		if err := s.emitOption(false); err != nil {
			return err
		}
		s.state = stateOutside
		return nil
	default:
		return s.fail(ErrNoMatchSupportsValueForOptionCode, s.code)
	}
}

// setCode normalizes the raw option code. When multi-character codes
// require a double announcer, the second announcer is removed.
func (s *scanner[O, P]) setCode() error {
	if !s.p.MultiCharOptionCodeRequiresDoubleAnnouncer {
		s.code = string(s.rawCode)
		return nil
	}

	switch {
	case len(s.rawCode) == 0:
		s.code = ""
	case len(s.rawCode) == 1:
		if s.rawCode[0] == s.announcer {
			s.code = ""
		} else {
			s.code = string(s.rawCode)
		}
	case s.rawCode[0] != s.announcer:
		return s.fail(ErrOptionCodeMissingDoubleAnnouncer, string(s.rawCode))
	default:
		s.code = string(s.rawCode[1:])
	}
	return nil
}

func (s *scanner[O, P]) stepAwaitingValue(r rune) error {
	if unicode.IsSpace(r) {
		return nil
	}
	if s.p.isTerminateChar(r) {
		if err := s.completeWithoutValueText(); err != nil {
			return err
		}
		s.stepOutside(r)
		return nil
	}

	decision, err := s.valueDecision(true, s.p.isOptionAnnouncer(r))
	if err != nil {
		return err
	}
	switch decision {
	case valueMust, valuePossibly:
		s.valueMayBeParam = decision == valuePossibly
		s.value.Reset()
		s.valueStart = s.charIndex
		s.optionState = optionInValue
		if r == s.p.QuoteChar {
			s.quoted = true
			return nil
		}
		s.quoted = false
		return s.step(r)
	default:
		if err := s.emitOption(false); err != nil {
			return err
		}
		s.state = stateOutside
		return s.step(r)
	}
}

// completeWithoutValueText finishes an option that is awaiting a value
// when no value text follows (end of line or a terminate character).
func (s *scanner[O, P]) completeWithoutValueText() error {
	decision, err := s.valueDecision(false, false)
	if err != nil {
		return err
	}
	s.valueMayBeParam = false
	if decision == valueMust {
		s.value.Reset()
		err = s.emitOption(true)
	} else {
		err = s.emitOption(false)
	}
	if err != nil {
		return err
	}
	s.state = stateOutside
	return nil
}

func (s *scanner[O, P]) stepInValue(r rune) error {
	if s.p.isEscapeChar(r) {
		s.optionState = optionInValueEscaped
		return nil
	}
	if s.quoted {
		if r == s.p.QuoteChar {
			s.optionState = optionInValueAtClosingQuote
		} else {
			s.value.WriteRune(r)
		}
		return nil
	}

	if unicode.IsSpace(r) || s.p.isTerminateChar(r) {
		return s.endOptionValue(r)
	}
	s.value.WriteRune(r)
	return nil
}

func (s *scanner[O, P]) endOptionValue(delimiter rune) error {
	if err := s.emitOption(true); err != nil {
		return err
	}
	s.state = stateOutside
	s.stepOutside(delimiter)
	return nil
}

// finish closes whatever argument is open at the end of the line
func (s *scanner[O, P]) finish() error {
	switch s.state {
	case stateOutside:
		return nil

	case stateInParam:
		if s.quoted {
			return s.fail(ErrParamMissingClosingQuote, s.value.String())
		}
		return s.emitParam()

	case stateInParamAtClosingQuote:
		return s.emitParam()

	case stateInParamEscaped:
		return s.fail(ErrInvalidTrailingEscapeInParam, s.value.String())
	}

	switch s.optionState {
	case optionJustAnnounced:
		return s.loneAnnouncer()

	case optionInCode:
		if err := s.setCode(); err != nil {
			return err
		}
		if s.code == "" {
			return s.loneAnnouncer()
		}
		return s.emitOption(false)

	case optionAwaitingValue:
		return s.completeWithoutValueText()

	case optionInValue:
		if s.quoted {
			return s.fail(ErrOptionValueMissingClosingQuote, s.code)
		}
		return s.emitOption(true)

	case optionInValueAtClosingQuote:
		return s.emitOption(true)

	default: // optionInValueEscaped
		return s.fail(ErrInvalidTrailingEscapeInOptionValue, s.code)
	}
}

func (s *scanner[O, P]) fail(id ErrorID, text string) error {
	return &ParseError{
		ID:            id,
		LineCharIndex: s.charIndex,
		ArgIndex:      s.argCount,
		OptionIndex:   s.optionCount,
		ParamIndex:    s.paramCount,
		Text:          text,
	}
}
