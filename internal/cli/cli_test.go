package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/partialeq/internal/errors"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		want          GlobalOptions
		wantRemaining []string
	}{
		{
			name:          "no flags",
			args:          []string{"check"},
			wantRemaining: []string{"check"},
		},
		{
			name:          "flags anywhere",
			args:          []string{"-q", "check", "fixtures", "--include-hidden"},
			want:          GlobalOptions{Quiet: true, IncludeHidden: true},
			wantRemaining: []string{"check", "fixtures"},
		},
		{
			name:          "values with space and equals",
			args:          []string{"--jobs", "8", "--max-depth=50", "compare", "--select", "$.data", "a.json", "b.json"},
			want:          GlobalOptions{Jobs: 8, MaxDepth: 50, Select: "$.data"},
			wantRemaining: []string{"compare", "a.json", "b.json"},
		},
		{
			name:          "short jobs flag",
			args:          []string{"-j", "1", "check"},
			want:          GlobalOptions{Jobs: 1},
			wantRemaining: []string{"check"},
		},
		{
			name:          "boolean flags",
			args:          []string{"--verbose", "--no-symbol-keys", "--fail-fast", "--no-color", "--max-nodes=10", "--config=x.json", "check"},
			want:          GlobalOptions{Verbose: true, NoSymbolKeys: true, FailFast: true, NoColor: true, MaxNodes: 10, ConfigPath: "x.json"},
			wantRemaining: []string{"check"},
		},
		{
			name:          "-- passthrough",
			args:          []string{"check", "--", "-odd-name.json"},
			wantRemaining: []string{"check", "-odd-name.json"},
		},
		{
			name:          "help is left for the command",
			args:          []string{"check", "--help"},
			wantRemaining: []string{"check", "--help"},
		},
		{
			name: "empty args",
			args: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			opts, remaining, err := parseGlobalFlags(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *opts)
			assert.Equal(t, tt.wantRemaining, remaining)
		})
	}
}

func TestParseGlobalFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"quiet and verbose", []string{"-q", "-v", "check"}, "mutually exclusive"},
		{"missing value", []string{"check", "--jobs"}, "--jobs requires a value"},
		{"not a number", []string{"--max-depth=deep", "check"}, `invalid --max-depth value "deep"`},
		{"negative", []string{"--max-nodes", "-1", "check"}, "non-negative"},
		{"unknown flag", []string{"--strict", "check"}, "unknown flag --strict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			_, _, err := parseGlobalFlags(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWantsHelp(t *testing.T) {
	assert.True(t, wantsHelp([]string{"a", "-h"}))
	assert.True(t, wantsHelp([]string{"--help"}))
	assert.False(t, wantsHelp([]string{"--", "--help"}))
	assert.False(t, wantsHelp(nil))
}

func TestRun_Meta(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, 0, "Usage:", ""},
		{"help", []string{"help"}, 0, "Commands:", ""},
		{"--help", []string{"--help"}, 0, "compare <actual> <expected>", ""},
		{"version", []string{"version"}, 0, "partialeq dev", ""},
		{"--version", []string{"--version"}, 0, "partialeq dev", ""},
		{"version after flags", []string{"-q", "version"}, 0, "partialeq dev", ""},
		{"unknown command", []string{"frobnicate"}, errors.ExitConfigError, "", `unknown command "frobnicate"`},
		{"bad flag", []string{"check", "--jobs=x"}, errors.ExitConfigError, "", "invalid --jobs value"},
		{"check help", []string{"check", "-h"}, 0, "Exit codes:", ""},
		{"compare help", []string{"compare", "--help"}, 0, "partialeq compare", ""},
		{"init help", []string{"init", "-h"}, 0, "partialeq init", ""},
		{"config help", []string{"config", "--help"}, 0, "config validate", ""},
		{"config without subcommand", []string{"config"}, errors.ExitConfigError, "", "subcommand required"},
		{"config unknown subcommand", []string{"config", "show"}, errors.ExitConfigError, "", `unknown subcommand "show"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := captureOutput(t)
			code := Run(tt.args)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}
