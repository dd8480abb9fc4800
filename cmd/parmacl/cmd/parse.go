package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/msto63/parmacl/foundation/cmdline"
	pmerror "github.com/msto63/parmacl/foundation/core/error"
	"github.com/msto63/parmacl/foundation/utils/stringx"
	"github.com/msto63/parmacl/internal/tui/repl"
)

var (
	parseStdin  bool
	parseFormat string
)

var parseCmd = &cobra.Command{
	Use:   "parse [line...]",
	Short: "Parse command lines with the active profile",
	Long: `Parses each argument as one command line and prints the resulting
options and parameters. With --stdin every input line is parsed.

Processing stops at the first line that fails to parse; the exit
status is then 2.

Examples:
  parmacl parse 'cp -r "my dir" backup'
  parmacl --profile shell.toml parse --format json 'grep -v --output=x.txt a'
  history | parmacl parse --stdin`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseStdin, "stdin", false, "read command lines from stdin")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: table or json (default from profile, else table)")
}

// argOutput is the JSON form of one parsed argument
type argOutput struct {
	Type          string `json:"type"`
	ArgIndex      int    `json:"arg_index"`
	Index         int    `json:"index"`
	LineCharIndex int    `json:"line_char_index"`
	Code          string `json:"code,omitempty"`
	Value         string `json:"value,omitempty"`
	HasValue      bool   `json:"has_value,omitempty"`
	Tag           string `json:"tag,omitempty"`
	Matcher       string `json:"matcher,omitempty"`
}

type errorOutput struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	LineCharIndex int    `json:"line_char_index"`
	ArgIndex      int    `json:"arg_index"`
	Text          string `json:"text,omitempty"`
}

type parseOutput struct {
	Line  string       `json:"line"`
	Args  []argOutput  `json:"args"`
	Error *errorOutput `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	format := stringx.FirstNonEmpty(
		parseFormat,
		activeProfile.Setting("cli.format", activeProfile.CLI.Format),
		"table",
	)
	if format != "table" && format != "json" {
		return pmerror.New("unknown output format").
			WithCode(pmerror.CodeInvalidInput).
			WithOperation("parse").
			WithDetail("format", format)
	}

	lines := args
	if parseStdin {
		var err error
		if lines, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if len(lines) == 0 {
		return pmerror.New("no command line given").
			WithCode(pmerror.CodeInvalidInput).
			WithOperation("parse")
	}

	parser, err := activeProfile.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for i, line := range lines {
		parsed, parseErr := parser.Parse(line)

		switch format {
		case "json":
			if err := enc.Encode(toOutput(line, parsed, parseErr)); err != nil {
				return pmerror.Wrap(err, "failed to write output").
					WithCode(pmerror.CodeInternal).
					WithOperation("parse")
			}
		default:
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, repl.LineStyle.Render("> "+line))
			if parseErr != nil {
				fmt.Fprintln(out, repl.RenderError(line, parseErr))
			} else {
				fmt.Fprintln(out, repl.RenderArgs(parsed))
			}
		}

		if parseErr != nil {
			var pe *cmdline.ParseError
			if errors.As(parseErr, &pe) {
				return pe.ToError()
			}
			return parseErr
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pmerror.Wrap(err, "failed to read stdin").
			WithCode(pmerror.CodeInvalidInput).
			WithOperation("parse")
	}
	return lines, nil
}

func toOutput(line string, args []cmdline.Arg[string, string], parseErr error) parseOutput {
	result := parseOutput{Line: line, Args: []argOutput{}}

	for _, a := range args {
		info := a.Info()
		item := argOutput{
			ArgIndex:      info.ArgIndex,
			LineCharIndex: info.LineCharIndex,
		}
		if info.Matcher != nil {
			item.Matcher = info.Matcher.Name
		}
		switch a := a.(type) {
		case *cmdline.OptionArg[string, string]:
			item.Type = "option"
			item.Index = a.OptionIndex
			item.Code = a.Code
			item.Value = a.Value
			item.HasValue = a.HasValue
			item.Tag = a.Tag()
		case *cmdline.ParamArg[string, string]:
			item.Type = "param"
			item.Index = a.ParamIndex
			item.Value = a.Value
			item.Tag = a.Tag()
		}
		result.Args = append(result.Args, item)
	}

	var pe *cmdline.ParseError
	if errors.As(parseErr, &pe) {
		result.Error = &errorOutput{
			ID:            pe.ID.String(),
			Message:       pe.ID.Message(),
			LineCharIndex: pe.LineCharIndex,
			ArgIndex:      pe.ArgIndex,
			Text:          pe.Text,
		}
	} else if parseErr != nil {
		result.Error = &errorOutput{ID: "Internal", Message: parseErr.Error()}
	}
	return result
}
