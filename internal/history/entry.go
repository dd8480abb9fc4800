package history

import (
	"errors"

	"github.com/google/uuid"

	"github.com/msto63/parmacl/foundation/cmdline"
)

// NewSessionID returns an ID grouping the entries of one interactive session
func NewSessionID() string {
	return uuid.NewString()
}

// FromParse builds an entry from the outcome of cmdline.Parser.Parse
func FromParse(sessionID, line string, args []cmdline.Arg[string, string], parseErr error) *Entry {
	entry := &Entry{
		SessionID: sessionID,
		Line:      line,
		ArgCount:  len(args),
	}

	for _, a := range args {
		switch a := a.(type) {
		case *cmdline.OptionArg[string, string]:
			entry.Args = append(entry.Args, ArgRecord{
				Option:   true,
				Code:     a.Code,
				Value:    a.Value,
				HasValue: a.HasValue,
				Tag:      a.Tag(),
			})
		case *cmdline.ParamArg[string, string]:
			entry.Args = append(entry.Args, ArgRecord{Value: a.Value, Tag: a.Tag()})
		}
	}

	if parseErr != nil {
		var pe *cmdline.ParseError
		if errors.As(parseErr, &pe) {
			entry.ErrorID = pe.ID.String()
		} else {
			entry.ErrorID = "Internal"
		}
		entry.ErrorText = parseErr.Error()
	}
	return entry
}
