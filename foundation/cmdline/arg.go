// File: arg.go
// Title: Parse Results
// Description: Option and parameter results produced by Parser.Parse.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

// Arg is one parsed argument: either *OptionArg or *ParamArg
type Arg[O, P any] interface {
	Info() ArgInfo[O, P]
}

// ArgInfo holds what options and parameters have in common
type ArgInfo[O, P any] struct {
	Matcher       *Matcher[O, P] // matcher that accepted the argument
	LineCharIndex int            // code point index where the argument starts
	ArgIndex      int
}

// Info returns the common argument properties
func (a ArgInfo[O, P]) Info() ArgInfo[O, P] {
	return a
}

// OptionArg is a parsed option
type OptionArg[O, P any] struct {
	ArgInfo[O, P]
	OptionIndex int
	Code        string
	Value       string
	HasValue    bool
}

// Tag returns the option tag of the accepting matcher
func (a *OptionArg[O, P]) Tag() O {
	return a.Matcher.OptionTag
}

// ParamArg is a parsed parameter
type ParamArg[O, P any] struct {
	ArgInfo[O, P]
	ParamIndex int
	Value      string
}

// Tag returns the parameter tag of the accepting matcher
func (a *ParamArg[O, P]) Tag() P {
	return a.Matcher.ParamTag
}
