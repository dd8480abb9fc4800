// File: resolver.go
// Title: Matcher Resolution
// Description: Finds the first matcher accepting a completed option or
//              parameter and records the resulting argument.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

// valueDecision classifies whether the text after a value announcer is the
// option's value
type valueDecision int

const (
	valueMustNot valueDecision = iota
	valuePossibly
	valueMust
)

// optionEligible checks every matcher filter except the value
func (s *scanner[O, P]) optionEligible(m *Matcher[O, P]) bool {
	if !indexAccepted(m.ArgIndices, s.argCount) ||
		m.ArgType == ArgTypeParam ||
		!indexAccepted(m.OptionIndices, s.optionCount) {
		return false
	}
	if m.OptionCodes == nil {
		return true
	}
	for _, pattern := range m.OptionCodes {
		if pattern.Match(s.code, s.p.OptionCodesCaseSensitive) {
			return true
		}
	}
	return false
}

func (s *scanner[O, P]) optionValueAccepted(m *Matcher[O, P], hasValue bool) bool {
	switch m.OptionHasValue {
	case OptionHasValueNever:
		return !hasValue
	case OptionHasValueIfPossible:
		if !hasValue {
			return true
		}
	default:
		if !hasValue {
			return false
		}
	}
	return m.ValueText == nil || m.ValueText.Match(s.value.String(), s.p.OptionValuesCaseSensitive)
}

// canOptionHaveValue reports whether any eligible matcher allows a value
func (s *scanner[O, P]) canOptionHaveValue() bool {
	for _, m := range s.matchers {
		if s.optionEligible(m) && m.OptionHasValue != OptionHasValueNever {
			return true
		}
	}
	return false
}

// valueDecision looks at the first value character, if there is one, and
// decides whether it must, may or must not start the option's value. Any
// matcher requiring a value wins. A value may begin with an option announcer
// only for AlwaysAndValueCanStartWithOptionAnnouncer, or for IfPossible
// when the parser allows it and the value announcer is not whitespace.
func (s *scanner[O, P]) valueDecision(hasFirstChar, firstIsAnnouncer bool) (valueDecision, error) {
	decision := valueMustNot
	for _, m := range s.matchers {
		if !s.optionEligible(m) {
			continue
		}
		switch m.OptionHasValue {
		case OptionHasValueNever:
		case OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer:
			return valueMust, nil
		case OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer:
			if firstIsAnnouncer {
				return valueMustNot, s.fail(ErrOptionValueCannotBeginWithOptionAnnouncer, s.code)
			}
			return valueMust, nil
		default:
			if s.valueAnnouncerAmbiguous {
				if hasFirstChar && !firstIsAnnouncer {
					decision = valuePossibly
				}
				continue
			}
			if firstIsAnnouncer && !s.p.OptionValuesCanStartWithOptionAnnouncer {
				return valueMustNot, s.fail(ErrOptionValueCannotBeginWithOptionAnnouncer, s.code)
			}
			return valueMust, nil
		}
	}
	return decision, nil
}

func (s *scanner[O, P]) findOptionMatcher(hasValue bool) *Matcher[O, P] {
	for _, m := range s.matchers {
		if s.optionEligible(m) && s.optionValueAccepted(m, hasValue) {
			return m
		}
	}
	return nil
}

// emitOption records the current option. If its value is rejected and the
// value may instead be a parameter, the option is recorded without a value
// and the text is resolved again as a parameter.
func (s *scanner[O, P]) emitOption(hasValue bool) error {
	if m := s.findOptionMatcher(hasValue); m != nil {
		s.addOption(m, hasValue)
		return nil
	}

	if hasValue && s.valueMayBeParam {
		if m := s.findOptionMatcher(false); m != nil {
			s.addOption(m, false)
			s.argStart = s.valueStart
			return s.emitParam()
		}
	}
	return s.fail(ErrUnmatchedOption, s.code)
}

func (s *scanner[O, P]) addOption(m *Matcher[O, P], hasValue bool) {
	arg := &OptionArg[O, P]{
		ArgInfo: ArgInfo[O, P]{
			Matcher:       m,
			LineCharIndex: s.argStart,
			ArgIndex:      s.argCount,
		},
		OptionIndex: s.optionCount,
		Code:        s.code,
		HasValue:    hasValue,
	}
	if hasValue {
		arg.Value = s.value.String()
	}
	s.args = append(s.args, arg)
	s.argCount++
	s.optionCount++
}

func (s *scanner[O, P]) paramEligible(m *Matcher[O, P], text string) bool {
	return indexAccepted(m.ArgIndices, s.argCount) &&
		m.ArgType != ArgTypeOption &&
		indexAccepted(m.ParamIndices, s.paramCount) &&
		(m.ValueText == nil || m.ValueText.Match(text, s.p.ParamsCaseSensitive))
}

func (s *scanner[O, P]) emitParam() error {
	text := s.value.String()
	for _, m := range s.matchers {
		if !s.paramEligible(m, text) {
			continue
		}
		s.args = append(s.args, &ParamArg[O, P]{
			ArgInfo: ArgInfo[O, P]{
				Matcher:       m,
				LineCharIndex: s.argStart,
				ArgIndex:      s.argCount,
			},
			ParamIndex: s.paramCount,
			Value:      text,
		})
		s.argCount++
		s.paramCount++
		return nil
	}
	return s.fail(ErrUnmatchedParam, text)
}
