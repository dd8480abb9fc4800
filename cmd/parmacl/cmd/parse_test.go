package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
	"github.com/msto63/parmacl/internal/history"
)

const testProfile = `
name = "test"

[parser]
option_value_announcer_chars = " ="

[[matchers]]
name = "verbose"
arg_type = "option"
codes = ["v"]
option_has_value = "never"

[[matchers]]
name = "output"
arg_type = "option"
codes = ["o"]
option_has_value = "always"
option_tag = "output"

[[matchers]]
name = "file"
arg_type = "param"
param_tag = "file"
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with fresh flag values
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	profilePath, logLevel, verbose = "", "", false
	parseStdin, parseFormat = false, ""
	historyPath, historyLimit, historyFailed, historySession, historyPrune = "", 20, false, "", 0

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func decodeOutputs(t *testing.T, s string) []parseOutput {
	t.Helper()
	var outputs []parseOutput
	dec := json.NewDecoder(strings.NewReader(s))
	for {
		var o parseOutput
		err := dec.Decode(&o)
		if err == io.EOF {
			return outputs
		}
		require.NoError(t, err)
		outputs = append(outputs, o)
	}
}

func TestParse_JSON(t *testing.T) {
	profile := writeProfile(t, testProfile)

	out, err := execute(t, "", "--profile", profile, "parse", "--format", "json", "cp -v -o=out.txt src")
	require.NoError(t, err)

	want := []parseOutput{{
		Line: "cp -v -o=out.txt src",
		Args: []argOutput{
			{Type: "param", ArgIndex: 0, Index: 0, LineCharIndex: 0, Value: "cp", Tag: "file", Matcher: "file"},
			{Type: "option", ArgIndex: 1, Index: 0, LineCharIndex: 3, Code: "v", Matcher: "verbose"},
			{Type: "option", ArgIndex: 2, Index: 1, LineCharIndex: 6, Code: "o", Value: "out.txt", HasValue: true, Tag: "output", Matcher: "output"},
			{Type: "param", ArgIndex: 3, Index: 1, LineCharIndex: 17, Value: "src", Tag: "file", Matcher: "file"},
		},
	}}
	if diff := cmp.Diff(want, decodeOutputs(t, out)); diff != "" {
		t.Errorf("parse output mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Table(t *testing.T) {
	profile := writeProfile(t, testProfile)

	out, err := execute(t, "", "--profile", profile, "parse", "cp -o out.txt src", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "> cp -o out.txt src")
	assert.Contains(t, out, `"out.txt"`)
	assert.Contains(t, out, "matcher=output")
	assert.Contains(t, out, "> ls")
}

func TestParse_ErrorStopsProcessing(t *testing.T) {
	profile := writeProfile(t, testProfile)

	out, err := execute(t, "cp a\ncp -x\ncp b\n", "--profile", profile, "parse", "--stdin", "--format", "json")
	require.Error(t, err)
	assert.True(t, pmerror.HasCode(err, pmerror.CodeUnmatched))
	assert.Equal(t, 2, ExitCode(err))

	outputs := decodeOutputs(t, out)
	require.Len(t, outputs, 2, "lines after the failing one are not parsed")
	assert.Nil(t, outputs[0].Error)
	require.NotNil(t, outputs[1].Error)
	assert.Equal(t, errorOutput{
		ID:            "UnmatchedOption",
		Message:       "no matcher accepts option",
		LineCharIndex: 3,
		ArgIndex:      1,
		Text:          "x",
	}, *outputs[1].Error)
}

func TestParse_TableError(t *testing.T) {
	profile := writeProfile(t, testProfile)

	out, err := execute(t, "", "--profile", profile, "parse", `cp "open`)
	require.Error(t, err)
	assert.True(t, pmerror.HasCode(err, pmerror.CodeParseSyntax))
	assert.Contains(t, out, "ParamMissingClosingQuote")
}

func TestParse_InvalidUsage(t *testing.T) {
	profile := writeProfile(t, testProfile)

	tests := []struct {
		name string
		args []string
		code pmerror.Code
	}{
		{"no lines", []string{"--profile", profile, "parse"}, pmerror.CodeInvalidInput},
		{"unknown format", []string{"--profile", profile, "parse", "--format", "xml", "ls"}, pmerror.CodeInvalidInput},
		{"bad log level", []string{"--profile", profile, "--log-level", "loud", "parse", "ls"}, pmerror.CodeInvalidInput},
		{"missing profile", []string{"--profile", filepath.Join(t.TempDir(), "none.toml"), "parse", "ls"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			if tt.code != "" {
				assert.True(t, pmerror.HasCode(err, tt.code), "got %v", err)
				assert.Equal(t, 1, ExitCode(err))
			}
		})
	}
}

func TestParse_InvalidProfile(t *testing.T) {
	profile := writeProfile(t, `
[[matchers]]
arg_type = "option"
option_has_value = "sometimes"
`)
	_, err := execute(t, "", "--profile", profile, "parse", "ls")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestHistory_List(t *testing.T) {
	profile := writeProfile(t, testProfile)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := history.New(history.Config{Path: dbPath})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, &history.Entry{SessionID: "session-1", Line: "cp a b", ArgCount: 3}))
	require.NoError(t, store.Record(ctx, &history.Entry{SessionID: "session-1", Line: "cp -x", ErrorID: "UnmatchedOption"}))
	require.NoError(t, store.Close())

	out, err := execute(t, "", "--profile", profile, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "cp a b")
	assert.Contains(t, out, "UnmatchedOption")
	assert.Contains(t, out, "2 entries, 1 failed, 1 sessions")

	out, err = execute(t, "", "--profile", profile, "history", "--db", dbPath, "--failed")
	require.NoError(t, err)
	assert.NotContains(t, out, "cp a b")
	assert.Contains(t, out, "cp -x")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "parmacl v"+Version)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 4, ExitCode(pmerror.New("db").WithCode(pmerror.CodeDatabaseError)))
}
