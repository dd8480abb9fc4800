package repl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/msto63/parmacl/foundation/cmdline"
)

// RenderArgs renders parse results, one argument per line
func RenderArgs(args []cmdline.Arg[string, string]) string {
	if len(args) == 0 {
		return SubtitleStyle.Render("(no arguments)")
	}

	var s strings.Builder
	for i, a := range args {
		if i > 0 {
			s.WriteString("\n")
		}
		info := a.Info()
		s.WriteString(IndexStyle.Render(fmt.Sprintf("[%d]", info.ArgIndex)))

		switch a := a.(type) {
		case *cmdline.OptionArg[string, string]:
			s.WriteString(OptionStyle.Render(fmt.Sprintf("option #%d %s", a.OptionIndex, a.Code)))
			if a.HasValue {
				s.WriteString(" = " + ParamStyle.Render(fmt.Sprintf("%q", a.Value)))
			}
			s.WriteString(renderTag(a.Tag(), info.Matcher))
		case *cmdline.ParamArg[string, string]:
			s.WriteString(ParamStyle.Render(fmt.Sprintf("param  #%d %q", a.ParamIndex, a.Value)))
			s.WriteString(renderTag(a.Tag(), info.Matcher))
		}
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("  @%d", info.LineCharIndex)))
	}
	return s.String()
}

func renderTag(tag string, m *cmdline.Matcher[string, string]) string {
	var parts []string
	if tag != "" {
		parts = append(parts, "tag="+tag)
	}
	if m != nil && m.Name != "" {
		parts = append(parts, "matcher="+m.Name)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + TagStyle.Render(strings.Join(parts, " "))
}

// RenderError renders a parse failure. For a *cmdline.ParseError a caret
// marks the failing character of line.
func RenderError(line string, err error) string {
	var pe *cmdline.ParseError
	if !errors.As(err, &pe) {
		return ErrorMessageStyle.Render("Error: " + err.Error())
	}

	var s strings.Builder
	s.WriteString(ErrorMessageStyle.Render(fmt.Sprintf("Error %s: %s", pe.ID, pe.Error())))
	s.WriteString("\n")
	s.WriteString(line)
	s.WriteString("\n")
	s.WriteString(strings.Repeat(" ", pe.LineCharIndex))
	s.WriteString(CaretStyle.Render("^"))
	return s.String()
}
