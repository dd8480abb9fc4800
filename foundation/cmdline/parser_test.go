// File: parser_test.go
// Title: Command Line Parser Unit Tests
// Description: Tests for scanning, quoting, escaping, option values,
//              matcher resolution and error reporting.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial parser test suite

package cmdline

import (
	"bytes"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
	pmlog "github.com/msto63/parmacl/foundation/core/log"
)

// argView flattens a result for comparison
type argView struct {
	Option   bool
	Code     string
	Value    string
	HasValue bool
	Tag      string
	Char     int
}

func opt(code string, char int) argView {
	return argView{Option: true, Code: code, Char: char}
}

func optVal(code, value string, char int) argView {
	return argView{Option: true, Code: code, Value: value, HasValue: true, Char: char}
}

func param(value string, char int) argView {
	return argView{Value: value, Char: char}
}

func (v argView) tagged(tag string) argView {
	v.Tag = tag
	return v
}

func views(args []Arg[string, string]) []argView {
	result := make([]argView, 0, len(args))
	for _, a := range args {
		switch a := a.(type) {
		case *OptionArg[string, string]:
			result = append(result, argView{
				Option:   true,
				Code:     a.Code,
				Value:    a.Value,
				HasValue: a.HasValue,
				Tag:      a.Tag(),
				Char:     a.LineCharIndex,
			})
		case *ParamArg[string, string]:
			result = append(result, argView{
				Value: a.Value,
				Tag:   a.Tag(),
				Char:  a.LineCharIndex,
			})
		}
	}
	return result
}

func newTestParser() *Parser[string, string] {
	p := New[string, string]()
	p.Logger = pmlog.Discard()
	return p
}

func TestParser_Parse_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Parser[string, string])
		input string
		want  []argView
	}{
		{name: "empty line", input: "", want: []argView{}},
		{name: "whitespace only", input: "  \t ", want: []argView{}},
		{name: "params", input: "copy a b", want: []argView{param("copy", 0), param("a", 5), param("b", 7)}},
		{name: "quoted param", input: `"a b" c`, want: []argView{param("a b", 0), param("c", 6)}},
		{name: "doubled quote", input: `"a""b"`, want: []argView{param(`a"b`, 0)}},
		{name: "quote inside unquoted param is literal", input: `a"b`, want: []argView{param(`a"b`, 0)}},
		{
			name:  "doubling disabled ends quoted param",
			setup: func(p *Parser[string, string]) { p.EmbedQuoteCharWithDouble = false },
			input: `"a" b`,
			want:  []argView{param("a", 0), param("b", 4)},
		},
		{
			name:  "escaped whitespace",
			setup: func(p *Parser[string, string]) { p.EscapeChar = '\\' },
			input: `a\ b`,
			want:  []argView{param("a b", 0)},
		},
		{
			name:  "escaped quote inside quotes",
			setup: func(p *Parser[string, string]) { p.EscapeChar = '\\' },
			input: `"a\"b"`,
			want:  []argView{param(`a"b`, 0)},
		},
		{name: "terminate after whitespace", input: "a > out.txt", want: []argView{param("a", 0)}},
		{name: "terminate ends unquoted param", input: "a|wc -l", want: []argView{param("a", 0)}},
		{name: "terminate inside quotes is literal", input: `"a|b" c`, want: []argView{param("a|b", 0), param("c", 6)}},
		{name: "option without value", input: "-x", want: []argView{opt("x", 0)}},
		{name: "option with value", input: "-x value", want: []argView{optVal("x", "value", 0)}},
		{name: "option with quoted value", input: `-x "a b" c`, want: []argView{optVal("x", "a b", 0), param("c", 9)}},
		{name: "value skips extra whitespace", input: "-x    v", want: []argView{optVal("x", "v", 0)}},
		{name: "announcer after whitespace starts next option", input: "-x -y", want: []argView{opt("x", 0), opt("y", 3)}},
		{name: "trailing whitespace after option", input: "-x  ", want: []argView{opt("x", 0)}},
		{name: "option before terminate", input: "-x >f", want: []argView{opt("x", 0)}},
		{name: "terminate ends option code", input: "-x|y", want: []argView{opt("x", 0)}},
		{name: "quote ends option code", input: `-x"a b"`, want: []argView{opt("x", 0), param("a b", 2)}},
		{name: "multi char code with single announcer", input: "-name v", want: []argView{optVal("name", "v", 0)}},
		{name: "code points not bytes", input: "é -x ü", want: []argView{param("é", 0), optVal("x", "ü", 2)}},
		{
			name:  "custom quote char",
			setup: func(p *Parser[string, string]) { p.QuoteChar = '\'' },
			input: `'a b' "c`,
			want:  []argView{param("a b", 0), param(`"c`, 6)},
		},
		{
			name:  "lone announcer as param",
			setup: func(p *Parser[string, string]) { p.ParamsCanStartWithOptionAnnouncer = true },
			input: "cat - x -",
			want:  []argView{param("cat", 0), param("-", 4), param("x", 6), param("-", 8)},
		},
		{
			name:  "alternative announcer",
			setup: func(p *Parser[string, string]) { p.OptionAnnouncerChars = []rune{'-', '/'} },
			input: "/a -b",
			want:  []argView{opt("a", 0), opt("b", 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			if tt.setup != nil {
				tt.setup(p)
			}

			args, err := p.Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, views(args)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParser_Parse_ValueAnnouncers(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Parser[string, string])
		input string
		want  []argView
	}{
		{name: "equals announcer", input: "-x=val", want: []argView{optVal("x", "val", 0)}},
		{name: "equals announcer with whitespace before value", input: "-x= val", want: []argView{optVal("x", "val", 0)}},
		{name: "equals announcer with quoted value", input: `-x="a b"`, want: []argView{optVal("x", "a b", 0)}},
		{name: "equals announcer at end of line", input: "-x=", want: []argView{optVal("x", "", 0)}},
		{name: "whitespace announcer still works", input: "-x val", want: []argView{optVal("x", "val", 0)}},
		{
			name:  "value may start with announcer when allowed",
			setup: func(p *Parser[string, string]) { p.OptionValuesCanStartWithOptionAnnouncer = true },
			input: "-x=-y",
			want:  []argView{optVal("x", "-y", 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			p.OptionValueAnnouncerChars = []rune{' ', '='}
			if tt.setup != nil {
				tt.setup(p)
			}

			args, err := p.Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, views(args)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParser_Parse_DoubleAnnouncer(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []argView
		wantID ErrorID
	}{
		{name: "single char code", input: "-n", want: []argView{opt("n", 0)}},
		{name: "single char code with double announcer", input: "--n", want: []argView{opt("n", 0)}},
		{name: "multi char code", input: "--name v", want: []argView{optVal("name", "v", 0)}},
		{name: "multi char code needs double announcer", input: "-name", wantID: ErrOptionCodeMissingDoubleAnnouncer},
		{name: "double announcer alone", input: "-- x", wantID: ErrNoCodeAfterOptionAnnouncer},
		{name: "double announcer alone at end", input: "--", wantID: ErrNoCodeAfterOptionAnnouncer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			p.MultiCharOptionCodeRequiresDoubleAnnouncer = true

			args, err := p.Parse(tt.input)
			if tt.wantID != 0 {
				assert.True(t, IsErrorID(err, tt.wantID), "got %v", err)
				assert.Nil(t, args)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, views(args)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *Parser[string, string])
		input    string
		wantID   ErrorID
		wantChar int
		wantArg  int
		wantText string
	}{
		{name: "missing closing quote", input: `"abc`, wantID: ErrParamMissingClosingQuote, wantChar: 4, wantText: "abc"},
		{name: "quoted param followed by text", input: `a "bc"d`, wantID: ErrQuotedParamNotFollowedByWhitespace, wantChar: 6, wantArg: 1, wantText: "bc"},
		{name: "announcer followed by whitespace", input: "- a", wantID: ErrNoCodeAfterOptionAnnouncer, wantChar: 1, wantText: "-"},
		{name: "announcer at end of line", input: "a -", wantID: ErrNoCodeAfterOptionAnnouncer, wantChar: 3, wantArg: 1, wantText: "-"},
		{name: "announcer followed by terminate", input: "-|", wantID: ErrNoCodeAfterOptionAnnouncer, wantChar: 1, wantText: "-"},
		{name: "option value missing closing quote", input: `-x "ab`, wantID: ErrOptionValueMissingClosingQuote, wantChar: 6, wantText: "x"},
		{name: "quoted option value followed by text", input: `-x "a"b`, wantID: ErrQuotedOptionValueNotFollowedByWhitespace, wantChar: 6, wantText: "x"},
		{
			name:     "trailing escape in param",
			setup:    func(p *Parser[string, string]) { p.EscapeChar = '\\' },
			input:    `ab\`,
			wantID:   ErrInvalidTrailingEscapeInParam,
			wantChar: 3,
			wantText: "ab",
		},
		{
			name:     "trailing escape in option value",
			setup:    func(p *Parser[string, string]) { p.EscapeChar = '\\' },
			input:    `-x a\`,
			wantID:   ErrInvalidTrailingEscapeInOptionValue,
			wantChar: 5,
			wantText: "x",
		},
		{
			name:     "value announcer without code",
			setup:    func(p *Parser[string, string]) { p.OptionValueAnnouncerChars = []rune{'='} },
			input:    "-=v",
			wantID:   ErrNoCodeAfterOptionAnnouncer,
			wantChar: 1,
			wantText: "-",
		},
		{
			name:     "value starting with announcer",
			setup:    func(p *Parser[string, string]) { p.OptionValueAnnouncerChars = []rune{'='} },
			input:    "-x=-y",
			wantID:   ErrOptionValueCannotBeginWithOptionAnnouncer,
			wantChar: 3,
			wantText: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			if tt.setup != nil {
				tt.setup(p)
			}

			args, err := p.Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, args)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantID, pe.ID, "error id %s", pe.ID)
			assert.Equal(t, tt.wantChar, pe.LineCharIndex)
			assert.Equal(t, tt.wantArg, pe.ArgIndex)
			assert.Equal(t, tt.wantText, pe.Text)
		})
	}
}

func TestParser_Parse_Ordinals(t *testing.T) {
	lines := []string{
		"a -b c -d -e f g",
		`-x "one two" three -y=4 five`,
		"p1 p2 p3",
		"-a -b -c",
	}

	p := newTestParser()
	p.OptionValueAnnouncerChars = []rune{' ', '='}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			args, err := p.Parse(line)
			require.NoError(t, err)

			options, params := 0, 0
			lastChar := -1
			for i, a := range args {
				info := a.Info()
				assert.Equal(t, i, info.ArgIndex)
				assert.Greater(t, info.LineCharIndex, lastChar)
				lastChar = info.LineCharIndex
				assert.Same(t, p.FallbackMatcher(), info.Matcher)

				switch a := a.(type) {
				case *OptionArg[string, string]:
					assert.Equal(t, options, a.OptionIndex)
					options++
				case *ParamArg[string, string]:
					assert.Equal(t, params, a.ParamIndex)
					params++
				default:
					t.Fatalf("unexpected arg type %T", a)
				}
			}
		})
	}
}

func TestParser_AmbiguousValueAnnouncer(t *testing.T) {
	p := newTestParser()
	p.AddMatcher(&Matcher[string, string]{
		Name:        "switch",
		ArgType:     ArgTypeOption,
		OptionCodes: []Pattern{Text("x")},
		ValueText:   Text("on"),
		OptionTag:   "x",
	})
	p.AddMatcher(&Matcher[string, string]{
		Name:     "file",
		ArgType:  ArgTypeParam,
		ParamTag: "file",
	})

	args, err := p.Parse("-x ON")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]argView{optVal("x", "ON", 0).tagged("x")}, views(args)))

	args, err = p.Parse("-x  report.txt")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]argView{
		opt("x", 0).tagged("x"),
		param("report.txt", 4).tagged("file"),
	}, views(args)))

	fileArg := args[1].(*ParamArg[string, string])
	assert.Equal(t, 1, fileArg.ArgIndex)
	assert.Equal(t, 0, fileArg.ParamIndex)

	args, err = p.Parse(`-x "my file"`)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]argView{
		opt("x", 0).tagged("x"),
		{Value: "my file", Tag: "file", Char: 3},
	}, views(args)))
}

func TestParser_AmbiguousValueRejectedEverywhere(t *testing.T) {
	p := newTestParser()
	p.AddMatcher(&Matcher[string, string]{
		ArgType:     ArgTypeOption,
		OptionCodes: []Pattern{Text("x")},
		ValueText:   Text("on"),
	})

	_, err := p.Parse("-x off")
	assert.True(t, IsErrorID(err, ErrUnmatchedParam), "got %v", err)
}

func TestParser_OptionHasValuePolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy OptionHasValue
		input  string
		want   []argView
		wantID ErrorID
	}{
		{name: "never leaves text as param", policy: OptionHasValueNever, input: "-o v", want: []argView{opt("o", 0).tagged("o"), param("v", 3).tagged("p")}},
		{name: "never rejects explicit value", policy: OptionHasValueNever, input: "-o=v", wantID: ErrNoMatchSupportsValueForOptionCode},
		{name: "always takes value", policy: OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer, input: "-o v", want: []argView{optVal("o", "v", 0).tagged("o")}},
		{name: "always takes announcer value", policy: OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer, input: "-o -v", want: []argView{optVal("o", "-v", 0).tagged("o")}},
		{name: "always without value is unmatched", policy: OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer, input: "-o", wantID: ErrUnmatchedOption},
		{name: "always before terminate gets empty value", policy: OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer, input: "-o >f", want: []argView{optVal("o", "", 0).tagged("o")}},
		{name: "always no announcer takes value", policy: OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer, input: "-o=v", want: []argView{optVal("o", "v", 0).tagged("o")}},
		{name: "always no announcer rejects announcer", policy: OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer, input: "-o -v", wantID: ErrOptionValueCannotBeginWithOptionAnnouncer},
		{name: "always no announcer accepts quoted announcer", policy: OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer, input: `-o "-v"`, want: []argView{optVal("o", "-v", 0).tagged("o")}},
		{name: "if possible takes value", policy: OptionHasValueIfPossible, input: "-o v", want: []argView{optVal("o", "v", 0).tagged("o")}},
		{name: "if possible stops at next option", policy: OptionHasValueIfPossible, input: "-o -o", want: []argView{opt("o", 0).tagged("o"), opt("o", 3).tagged("o")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			p.OptionValueAnnouncerChars = []rune{' ', '='}
			p.AddMatcher(&Matcher[string, string]{
				ArgType:        ArgTypeOption,
				OptionCodes:    []Pattern{Text("o")},
				OptionHasValue: tt.policy,
				OptionTag:      "o",
			})
			p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeParam, ParamTag: "p"})

			args, err := p.Parse(tt.input)
			if tt.wantID != 0 {
				assert.True(t, IsErrorID(err, tt.wantID), "got %v", err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, views(args)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParser_MatcherFilters(t *testing.T) {
	t.Run("restrictive matcher rejects other codes", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption, OptionCodes: []Pattern{Text("a")}})

		_, err := p.Parse("-b")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, ErrUnmatchedOption, pe.ID)
		assert.Equal(t, "b", pe.Text)
	})

	t.Run("params need a param matcher", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption})

		_, err := p.Parse("file -a")
		assert.True(t, IsErrorID(err, ErrUnmatchedParam), "got %v", err)
	})

	t.Run("priority follows insertion order", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{Name: "first", OptionTag: "first"})
		p.AddMatcher(&Matcher[string, string]{Name: "second", OptionTag: "second"})

		args, err := p.Parse("-a")
		require.NoError(t, err)
		assert.Equal(t, "first", args[0].(*OptionArg[string, string]).Tag())

		require.NoError(t, p.RemoveMatcher(0))
		args, err = p.Parse("-a")
		require.NoError(t, err)
		assert.Equal(t, "second", args[0].(*OptionArg[string, string]).Tag())
	})

	t.Run("arg indices", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgIndices: []int{0}, ArgType: ArgTypeParam, ParamTag: "command"})
		p.AddMatcher(&Matcher[string, string]{ParamTag: "arg"})

		args, err := p.Parse("run a b")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff([]argView{
			param("run", 0).tagged("command"),
			param("a", 4).tagged("arg"),
			param("b", 6).tagged("arg"),
		}, views(args)))
	})

	t.Run("option and param indices", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption, OptionIndices: []int{0}, OptionHasValue: OptionHasValueNever, OptionTag: "first-option"})
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption, OptionHasValue: OptionHasValueNever, OptionTag: "option"})
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeParam, ParamIndices: []int{1}, ParamTag: "second-param"})
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeParam, ParamTag: "param"})

		args, err := p.Parse("-a p -b q")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff([]argView{
			opt("a", 0).tagged("first-option"),
			param("p", 3).tagged("param"),
			opt("b", 5).tagged("option"),
			param("q", 8).tagged("second-param"),
		}, views(args)))
	})

	t.Run("code case sensitivity", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption, OptionCodes: []Pattern{Text("X")}, OptionHasValue: OptionHasValueNever})

		_, err := p.Parse("-x")
		require.NoError(t, err)

		p.OptionCodesCaseSensitive = true
		_, err = p.Parse("-x")
		assert.True(t, IsErrorID(err, ErrUnmatchedOption))
	})

	t.Run("param case sensitivity", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeParam, ValueText: Text("Start")})

		_, err := p.Parse("START")
		require.NoError(t, err)

		p.ParamsCaseSensitive = true
		_, err = p.Parse("START")
		assert.True(t, IsErrorID(err, ErrUnmatchedParam))
	})

	t.Run("option value case sensitivity", func(t *testing.T) {
		p := newTestParser()
		p.OptionValueAnnouncerChars = []rune{'='}
		p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeOption, ValueText: Text("Fast")})

		_, err := p.Parse("-mode=FAST")
		require.NoError(t, err)

		p.OptionValuesCaseSensitive = true
		_, err = p.Parse("-mode=FAST")
		assert.True(t, IsErrorID(err, ErrUnmatchedOption))
	})

	t.Run("regex codes", func(t *testing.T) {
		p := newTestParser()
		p.AddMatcher(&Matcher[string, string]{
			ArgType:        ArgTypeOption,
			OptionCodes:    []Pattern{Text("verbose"), MustRegex(`v+`)},
			OptionHasValue: OptionHasValueNever,
			OptionTag:      "verbosity",
		})

		args, err := p.Parse("-vvv -verbose")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff([]argView{
			opt("vvv", 0).tagged("verbosity"),
			opt("verbose", 5).tagged("verbosity"),
		}, views(args)))

		_, err = p.Parse("-xv")
		assert.True(t, IsErrorID(err, ErrUnmatchedOption))
	})
}

func TestParser_Registry(t *testing.T) {
	p := newTestParser()
	first := &Matcher[string, string]{Name: "first"}
	second := &Matcher[string, string]{Name: "second"}
	p.AddMatcher(first)
	p.AddMatcher(second)

	listed := p.Matchers()
	require.Len(t, listed, 2)
	assert.Same(t, first, listed[0])
	listed[0] = nil
	assert.Same(t, first, p.Matchers()[0], "listing is a copy")

	err := p.RemoveMatcher(2)
	require.Error(t, err)
	assert.True(t, pmerror.HasCode(err, pmerror.CodeValueOutOfRange))
	assert.True(t, pmerror.HasCode(p.RemoveMatcher(-1), pmerror.CodeValueOutOfRange))

	require.NoError(t, p.RemoveMatcher(0))
	assert.Equal(t, []*Matcher[string, string]{second}, p.Matchers())

	args, err := p.Parse("a")
	require.NoError(t, err)
	assert.Same(t, second, args[0].Info().Matcher)

	p.ClearMatchers()
	assert.Empty(t, p.Matchers())
	args, err = p.Parse("a -b")
	require.NoError(t, err)
	for _, a := range args {
		assert.Same(t, p.FallbackMatcher(), a.Info().Matcher)
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := newTestParser()
	p.AddMatcher(&Matcher[string, string]{Name: "any"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			args, err := p.Parse(`-a "b c" d`)
			assert.NoError(t, err)
			assert.Len(t, args, 2)
		}()
		go func() {
			defer wg.Done()
			p.AddMatcher(&Matcher[string, string]{Name: "extra"})
		}()
	}
	wg.Wait()

	assert.Len(t, p.Matchers(), 9)
}

func TestParser_Logging(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New[string, string]()
	p.Logger = pmlog.NewWithConfig(pmlog.Config{Level: pmlog.LevelDebug, Output: buf}).
		WithField("component", "cmdline-parser")

	_, err := p.Parse(`"open`)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"cmdline-parser"`)
	assert.Contains(t, out, "Parsing command line")
	assert.Contains(t, out, `"error_id":"ParamMissingClosingQuote"`)
}

func TestParseError(t *testing.T) {
	p := newTestParser()
	p.AddMatcher(&Matcher[string, string]{ArgType: ArgTypeParam})

	_, err := p.Parse("a -z")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrUnmatchedOption, pe.ID)
	assert.Equal(t, `no matcher accepts option: "z" (char 4, arg 1)`, pe.Error())
	assert.Equal(t, "UnmatchedOption", pe.ID.String())

	structured := pe.ToError()
	assert.Equal(t, pmerror.CodeUnmatched, structured.Code())
	assert.Equal(t, "cmdline.Parse", structured.Operation())
	assert.Equal(t, 1, structured.Details()["arg_index"])
	assert.Equal(t, 0, structured.Details()["option_index"])
	assert.Equal(t, 1, structured.Details()["param_index"])
	assert.True(t, IsErrorID(structured, ErrUnmatchedOption))

	syntax := (&ParseError{ID: ErrParamMissingClosingQuote}).ToError()
	assert.Equal(t, pmerror.CodeParseSyntax, syntax.Code())

	assert.Equal(t, "ErrorID(99)", ErrorID(99).String())
	assert.False(t, IsErrorID(nil, ErrUnmatchedOption))
}
