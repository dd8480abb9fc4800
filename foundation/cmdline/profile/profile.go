// File: profile.go
// Title: Parser Profiles
// Description: Declarative parser profiles read from TOML or YAML. A
//              profile holds parser settings and an ordered matcher list
//              and builds a ready-to-use cmdline.Parser.
// Version: v0.1.0
// Created: 2025-10-19
// Modified: 2025-10-19
//
// Change History:
// - 2025-10-19 v0.1.0: Initial implementation

package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msto63/parmacl/foundation/cmdline"
	"github.com/msto63/parmacl/foundation/core/config"
	pmerror "github.com/msto63/parmacl/foundation/core/error"
	pmlog "github.com/msto63/parmacl/foundation/core/log"
)

// EnvPrefix prefixes environment overrides of profile settings
const EnvPrefix = "PARMACL"

// Profile is a named parser configuration
type Profile struct {
	Name        string         `toml:"name" yaml:"name"`
	Description string         `toml:"description" yaml:"description"`
	Parser      ParserSettings `toml:"parser" yaml:"parser"`
	Matchers    []MatcherSpec  `toml:"matchers" yaml:"matchers"`
	CLI         CLISettings    `toml:"cli" yaml:"cli"`

	cfg *config.Config
}

// ParserSettings mirrors the cmdline.Parser settings. Unset fields keep the
// parser defaults. Character sets are written as strings, one character
// per member.
type ParserSettings struct {
	QuoteChar                                  *string `toml:"quote_char" yaml:"quote_char"`
	OptionAnnouncerChars                       *string `toml:"option_announcer_chars" yaml:"option_announcer_chars"`
	OptionCodesCaseSensitive                   *bool   `toml:"option_codes_case_sensitive" yaml:"option_codes_case_sensitive"`
	MultiCharOptionCodeRequiresDoubleAnnouncer *bool   `toml:"multi_char_option_code_requires_double_announcer" yaml:"multi_char_option_code_requires_double_announcer"`
	OptionValueAnnouncerChars                  *string `toml:"option_value_announcer_chars" yaml:"option_value_announcer_chars"`
	OptionValuesCaseSensitive                  *bool   `toml:"option_values_case_sensitive" yaml:"option_values_case_sensitive"`
	OptionValuesCanStartWithOptionAnnouncer    *bool   `toml:"option_values_can_start_with_option_announcer" yaml:"option_values_can_start_with_option_announcer"`
	ParamsCaseSensitive                        *bool   `toml:"params_case_sensitive" yaml:"params_case_sensitive"`
	ParamsCanStartWithOptionAnnouncer          *bool   `toml:"params_can_start_with_option_announcer" yaml:"params_can_start_with_option_announcer"`
	EmbedQuoteCharWithDouble                   *bool   `toml:"embed_quote_char_with_double" yaml:"embed_quote_char_with_double"`
	EscapeChar                                 *string `toml:"escape_char" yaml:"escape_char"` // empty disables escaping
	ParseTerminateChars                        *string `toml:"parse_terminate_chars" yaml:"parse_terminate_chars"`
}

// MatcherSpec describes one cmdline.Matcher
type MatcherSpec struct {
	Name           string   `toml:"name" yaml:"name"`
	ArgType        string   `toml:"arg_type" yaml:"arg_type"` // option, param or empty for both
	Codes          []string `toml:"codes" yaml:"codes"`
	CodePatterns   []string `toml:"code_patterns" yaml:"code_patterns"`
	OptionHasValue string   `toml:"option_has_value" yaml:"option_has_value"`
	Value          string   `toml:"value" yaml:"value"`
	ValuePattern   string   `toml:"value_pattern" yaml:"value_pattern"`
	ArgIndices     []int    `toml:"arg_indices" yaml:"arg_indices"`
	OptionIndices  []int    `toml:"option_indices" yaml:"option_indices"`
	ParamIndices   []int    `toml:"param_indices" yaml:"param_indices"`
	OptionTag      string   `toml:"option_tag" yaml:"option_tag"`
	ParamTag       string   `toml:"param_tag" yaml:"param_tag"`
}

// CLISettings holds defaults for the parmacl command
type CLISettings struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	History  string `toml:"history" yaml:"history"`
	Format   string `toml:"format" yaml:"format"`
}

// Default returns a profile without matchers; its parser accepts every
// argument through the fallback matcher
func Default() *Profile {
	return &Profile{Name: "default"}
}

// Load reads a profile file. The format follows the file extension.
func Load(path string) (*Profile, error) {
	cfg, err := config.LoadWithOptions(path, config.LoadOptions{
		Format:    config.FormatAuto,
		EnvPrefix: EnvPrefix,
	})
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

// LoadString reads a profile from content in the given format
func LoadString(content string, format config.Format) (*Profile, error) {
	cfg, err := config.LoadFromString(content, format)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

// Discover loads the first profile found in the default locations, or the
// default profile when there is none
func Discover() (*Profile, error) {
	opts := config.DefaultDiscoveryOptions()
	opts.EnvPrefix = EnvPrefix

	cfg, err := config.Discover(opts)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return fromConfig(cfg)
}

func fromConfig(cfg *config.Config) (*Profile, error) {
	p := &Profile{}
	if err := cfg.DecodeStrict(p); err != nil {
		return nil, pmerror.Wrap(err, "invalid parser profile").
			WithOperation("profile.Load").
			WithDetail("path", cfg.FilePath())
	}
	p.cfg = cfg
	if p.Name == "" {
		p.Name = "default"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Setting returns a string setting by dot path, honoring PARMACL_*
// environment overrides for profiles loaded from a file
func (p *Profile) Setting(key, defaultValue string) string {
	if p.cfg == nil {
		return defaultValue
	}
	return p.cfg.GetString(key, defaultValue)
}

// Path returns the file the profile was loaded from, if any
func (p *Profile) Path() string {
	if p.cfg == nil {
		return ""
	}
	return p.cfg.FilePath()
}

// Validate checks every setting and matcher and reports all problems at once
func (p *Profile) Validate() error {
	var problems []string
	report := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	s := p.Parser
	if s.QuoteChar != nil && utf8.RuneCountInString(*s.QuoteChar) != 1 {
		report("parser.quote_char must be exactly one character, got %q", *s.QuoteChar)
	}
	if s.EscapeChar != nil && utf8.RuneCountInString(*s.EscapeChar) > 1 {
		report("parser.escape_char must be at most one character, got %q", *s.EscapeChar)
	}
	if s.OptionAnnouncerChars != nil && *s.OptionAnnouncerChars == "" {
		report("parser.option_announcer_chars must not be empty")
	}

	for i, m := range p.Matchers {
		label := fmt.Sprintf("matchers[%d]", i)
		if m.Name != "" {
			label = fmt.Sprintf("matchers[%d] (%s)", i, m.Name)
		}
		if _, err := parseArgType(m.ArgType); err != nil {
			report("%s: %v", label, err)
		}
		if _, err := parseOptionHasValue(m.OptionHasValue); err != nil {
			report("%s: %v", label, err)
		}
		for _, expr := range m.CodePatterns {
			if _, err := cmdline.NewRegex(expr); err != nil {
				report("%s: invalid code pattern %q: %v", label, expr, err)
			}
		}
		if m.Value != "" && m.ValuePattern != "" {
			report("%s: value and value_pattern are mutually exclusive", label)
		}
		if m.ValuePattern != "" {
			if _, err := cmdline.NewRegex(m.ValuePattern); err != nil {
				report("%s: invalid value pattern %q: %v", label, m.ValuePattern, err)
			}
		}
		for _, indices := range [][]int{m.ArgIndices, m.OptionIndices, m.ParamIndices} {
			for _, index := range indices {
				if index < 0 {
					report("%s: negative index %d", label, index)
				}
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return pmerror.New(fmt.Sprintf("profile %q is invalid: %s", p.Name, strings.Join(problems, "; "))).
		WithCode(pmerror.CodeInvalidConfig).
		WithOperation("profile.Validate").
		WithDetail("problems", problems)
}

// Build validates the profile and creates a parser from it
func (p *Profile) Build() (*cmdline.Parser[string, string], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	parser := cmdline.New[string, string]()
	p.Parser.apply(parser)

	for _, spec := range p.Matchers {
		m, err := spec.build()
		if err != nil {
			return nil, err
		}
		parser.AddMatcher(m)
	}

	pmlog.GetDefault().Debug("Parser built from profile", pmlog.Fields{
		"profile":  p.Name,
		"matchers": len(p.Matchers),
	})
	return parser, nil
}

func (s ParserSettings) apply(parser *cmdline.Parser[string, string]) {
	if s.QuoteChar != nil {
		parser.QuoteChar = []rune(*s.QuoteChar)[0]
	}
	if s.OptionAnnouncerChars != nil {
		parser.OptionAnnouncerChars = []rune(*s.OptionAnnouncerChars)
	}
	if s.OptionValueAnnouncerChars != nil {
		parser.OptionValueAnnouncerChars = []rune(*s.OptionValueAnnouncerChars)
	}
	if s.ParseTerminateChars != nil {
		parser.ParseTerminateChars = []rune(*s.ParseTerminateChars)
	}
	if s.EscapeChar != nil {
		parser.EscapeChar = cmdline.NoEscapeChar
		if *s.EscapeChar != "" {
			parser.EscapeChar = []rune(*s.EscapeChar)[0]
		}
	}

	setBool(&parser.OptionCodesCaseSensitive, s.OptionCodesCaseSensitive)
	setBool(&parser.MultiCharOptionCodeRequiresDoubleAnnouncer, s.MultiCharOptionCodeRequiresDoubleAnnouncer)
	setBool(&parser.OptionValuesCaseSensitive, s.OptionValuesCaseSensitive)
	setBool(&parser.OptionValuesCanStartWithOptionAnnouncer, s.OptionValuesCanStartWithOptionAnnouncer)
	setBool(&parser.ParamsCaseSensitive, s.ParamsCaseSensitive)
	setBool(&parser.ParamsCanStartWithOptionAnnouncer, s.ParamsCanStartWithOptionAnnouncer)
	setBool(&parser.EmbedQuoteCharWithDouble, s.EmbedQuoteCharWithDouble)
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func (spec MatcherSpec) build() (*cmdline.Matcher[string, string], error) {
	argType, err := parseArgType(spec.ArgType)
	if err != nil {
		return nil, err
	}
	hasValue, err := parseOptionHasValue(spec.OptionHasValue)
	if err != nil {
		return nil, err
	}

	m := &cmdline.Matcher[string, string]{
		Name:           spec.Name,
		ArgIndices:     spec.ArgIndices,
		ArgType:        argType,
		OptionIndices:  spec.OptionIndices,
		ParamIndices:   spec.ParamIndices,
		OptionHasValue: hasValue,
		OptionTag:      spec.OptionTag,
		ParamTag:       spec.ParamTag,
	}

	for _, code := range spec.Codes {
		m.OptionCodes = append(m.OptionCodes, cmdline.Text(code))
	}
	for _, expr := range spec.CodePatterns {
		r, err := cmdline.NewRegex(expr)
		if err != nil {
			return nil, err
		}
		m.OptionCodes = append(m.OptionCodes, r)
	}

	switch {
	case spec.ValuePattern != "":
		r, err := cmdline.NewRegex(spec.ValuePattern)
		if err != nil {
			return nil, err
		}
		m.ValueText = r
	case spec.Value != "":
		m.ValueText = cmdline.Text(spec.Value)
	}
	return m, nil
}

func parseArgType(name string) (cmdline.ArgType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any":
		return cmdline.ArgTypeAny, nil
	case "option":
		return cmdline.ArgTypeOption, nil
	case "param", "parameter":
		return cmdline.ArgTypeParam, nil
	default:
		return cmdline.ArgTypeAny, fmt.Errorf("unknown arg_type %q", name)
	}
}

func parseOptionHasValue(name string) (cmdline.OptionHasValue, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "if-possible":
		return cmdline.OptionHasValueIfPossible, nil
	case "never":
		return cmdline.OptionHasValueNever, nil
	case "always":
		return cmdline.OptionHasValueAlwaysAndValueCanStartWithOptionAnnouncer, nil
	case "always-no-announcer":
		return cmdline.OptionHasValueAlwaysButValueMustNotStartWithOptionAnnouncer, nil
	default:
		return cmdline.DefaultOptionHasValue, fmt.Errorf("unknown option_has_value %q", name)
	}
}
