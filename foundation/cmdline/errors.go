// File: errors.go
// Title: Parse Errors
// Description: Error identifiers and the ParseError type returned when a
//              command line cannot be parsed.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

import (
	"errors"
	"fmt"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
)

// ErrorID identifies the kind of parse failure
type ErrorID int

const (
	ErrNoCodeAfterOptionAnnouncer ErrorID = iota + 1
	ErrOptionCodeMissingDoubleAnnouncer
	ErrNoMatchSupportsValueForOptionCode
	ErrOptionValueCannotBeginWithOptionAnnouncer
	ErrQuotedParamNotFollowedByWhitespace
	ErrQuotedOptionValueNotFollowedByWhitespace
	ErrParamMissingClosingQuote
	ErrOptionValueMissingClosingQuote
	ErrInvalidTrailingEscapeInParam
	ErrInvalidTrailingEscapeInOptionValue
	ErrUnmatchedOption
	ErrUnmatchedParam
)

var errorIDNames = map[ErrorID]string{
	ErrNoCodeAfterOptionAnnouncer:                "NoCodeAfterOptionAnnouncer",
	ErrOptionCodeMissingDoubleAnnouncer:          "OptionCodeMissingDoubleAnnouncer",
	ErrNoMatchSupportsValueForOptionCode:         "NoMatchSupportsValueForOptionCode",
	ErrOptionValueCannotBeginWithOptionAnnouncer: "OptionValueCannotBeginWithOptionAnnouncer",
	ErrQuotedParamNotFollowedByWhitespace:        "QuotedParamNotFollowedByWhitespace",
	ErrQuotedOptionValueNotFollowedByWhitespace:  "QuotedOptionValueNotFollowedByWhitespace",
	ErrParamMissingClosingQuote:                  "ParamMissingClosingQuote",
	ErrOptionValueMissingClosingQuote:            "OptionValueMissingClosingQuote",
	ErrInvalidTrailingEscapeInParam:              "InvalidTrailingEscapeInParam",
	ErrInvalidTrailingEscapeInOptionValue:        "InvalidTrailingEscapeInOptionValue",
	ErrUnmatchedOption:                           "UnmatchedOption",
	ErrUnmatchedParam:                            "UnmatchedParam",
}

var errorIDMessages = map[ErrorID]string{
	ErrNoCodeAfterOptionAnnouncer:                "option announcer is not followed by an option code",
	ErrOptionCodeMissingDoubleAnnouncer:          "multi-character option code must be announced with a double announcer",
	ErrNoMatchSupportsValueForOptionCode:         "no matcher supports a value for option code",
	ErrOptionValueCannotBeginWithOptionAnnouncer: "option value cannot begin with an option announcer",
	ErrQuotedParamNotFollowedByWhitespace:        "quoted parameter is not followed by whitespace",
	ErrQuotedOptionValueNotFollowedByWhitespace:  "quoted option value is not followed by whitespace",
	ErrParamMissingClosingQuote:                  "parameter is missing its closing quote",
	ErrOptionValueMissingClosingQuote:            "option value is missing its closing quote",
	ErrInvalidTrailingEscapeInParam:              "escape character at end of parameter",
	ErrInvalidTrailingEscapeInOptionValue:        "escape character at end of option value",
	ErrUnmatchedOption:                           "no matcher accepts option",
	ErrUnmatchedParam:                            "no matcher accepts parameter",
}

// String returns the name of the error ID
func (id ErrorID) String() string {
	if name, ok := errorIDNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ErrorID(%d)", int(id))
}

// Message returns a short English description
func (id ErrorID) Message() string {
	if msg, ok := errorIDMessages[id]; ok {
		return msg
	}
	return "parse error"
}

// ParseError describes the first violation found in a command line.
// Text holds the offending option code (for option errors) or the parameter
// text (for parameter errors).
type ParseError struct {
	ID            ErrorID
	LineCharIndex int // code point index where parsing stopped
	ArgIndex      int
	OptionIndex   int
	ParamIndex    int
	Text          string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q (char %d, arg %d)", e.ID.Message(), e.Text, e.LineCharIndex, e.ArgIndex)
}

// ToError converts the parse error into a structured error carrying the
// positions as details. Unmatched arguments get CodeUnmatched, every other
// failure CodeParseSyntax.
func (e *ParseError) ToError() *pmerror.Error {
	code := pmerror.CodeParseSyntax
	if e.ID == ErrUnmatchedOption || e.ID == ErrUnmatchedParam {
		code = pmerror.CodeUnmatched
	}
	return pmerror.Wrap(e, "failed to parse command line").
		WithCode(code).
		WithOperation("cmdline.Parse").
		WithDetails(map[string]interface{}{
			"error_id":        e.ID.String(),
			"line_char_index": e.LineCharIndex,
			"arg_index":       e.ArgIndex,
			"option_index":    e.OptionIndex,
			"param_index":     e.ParamIndex,
			"text":            e.Text,
		})
}

// IsErrorID reports whether err is, or wraps, a *ParseError with the given ID
func IsErrorID(err error, id ErrorID) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.ID == id
}
