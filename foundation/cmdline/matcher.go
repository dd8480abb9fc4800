// File: matcher.go
// Title: Argument Matchers
// Description: Declarative rules deciding which arguments are accepted as
//              options or parameters and which tags they carry.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package cmdline

import "fmt"

// ArgType restricts a matcher to options or parameters
type ArgType int

const (
	// ArgTypeAny matches options and parameters
	ArgTypeAny ArgType = iota
	ArgTypeOption
	ArgTypeParam
)

// String returns the string representation of the arg type
func (t ArgType) String() string {
	switch t {
	case ArgTypeAny:
		return "any"
	case ArgTypeOption:
		return "option"
	case ArgTypeParam:
		return "param"
	default:
		return fmt.Sprintf("ArgType(%d)", int(t))
	}
}

// OptionHasValue controls whether a matched option carries a value
type OptionHasValue int

const (
	// OptionHasValueIfPossible accepts the option with or without a value.
	// With a whitespace value announcer the following text becomes the value
	// only if a matcher accepts it; otherwise it is parsed as a parameter.
	OptionHasValueIfPossible OptionHasValue = iota

	// OptionHasValueNever accepts the option only without a value
	OptionHasValueNever

	// OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer requires a
	// value, which may begin with an option announcer character
	OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer

	// OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer requires a
	// value, which must not begin with an option announcer character
	OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer
)

// DefaultOptionHasValue is the policy of a matcher that does not set one
const DefaultOptionHasValue = OptionHasValueIfPossible

// String returns the string representation of the policy
func (v OptionHasValue) String() string {
	switch v {
	case OptionHasValueIfPossible:
		return "if-possible"
	case OptionHasValueNever:
		return "never"
	case OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer:
		return "always"
	case OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer:
		return "always-no-announcer"
	default:
		return fmt.Sprintf("OptionHasValue(%d)", int(v))
	}
}

// Matcher is one rule in a parser's ordered matcher list. Every filter left
// at its zero value (nil slice, nil pattern, ArgTypeAny) accepts anything.
type Matcher[O, P any] struct {
	Name string

	ArgIndices    []int // absolute argument positions
	ArgType       ArgType
	OptionIndices []int // positions among options only
	ParamIndices  []int // positions among parameters only

	OptionCodes    []Pattern // any one may match
	OptionHasValue OptionHasValue
	ValueText      Pattern // option value or parameter text

	OptionTag O
	ParamTag  P
}

// String returns the matcher name, or a placeholder for unnamed matchers
func (m *Matcher[O, P]) String() string {
	if m.Name == "" {
		return "<unnamed>"
	}
	return m.Name
}

func indexAccepted(indices []int, index int) bool {
	if indices == nil {
		return true
	}
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
