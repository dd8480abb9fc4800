// File: doc.go
// Title: Command Line Parser Package Documentation
// Description: Parses a single command line into typed options and
//              parameters, driven by an ordered list of declarative matchers
//              instead of a fixed argv convention.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial parser implementation

/*
Package cmdline parses one command line string into an ordered sequence of
arguments. Each argument is either an option (announced by an option
announcer character such as '-') or a positional parameter.

Which arguments are accepted, and which tag each one carries, is decided by
an ordered list of matchers. The first matcher whose filters all accept an
argument wins. A parser without matchers accepts everything through an
implicit fallback matcher.

The parser supports:

  • Configurable quote, escape, announcer and terminate characters
  • Quote embedding by doubling ("a""b" reads as a"b)
  • Option values announced by whitespace or by characters such as '=' or ':'
  • Disambiguation when a whitespace value announcer could also start a parameter
  • Character positions counted in code points for error reporting

Example:

	p := cmdline.New[string, string]()
	p.AddMatcher(&cmdline.Matcher[string, string]{
		Name:           "output",
		ArgType:        cmdline.ArgTypeOption,
		OptionCodes:    []cmdline.Pattern{cmdline.Text("o")},
		OptionHasValue: cmdline.OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer,
		OptionTag:      "output",
	})
	p.AddMatcher(&cmdline.Matcher[string, string]{
		Name:     "file",
		ArgType:  cmdline.ArgTypeParam,
		ParamTag: "file",
	})

	args, err := p.Parse(`-o out.txt "my file.txt"`)

A parse either succeeds completely or fails with a *ParseError describing
the first violation; partial results are never returned.
*/
package cmdline
