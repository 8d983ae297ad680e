package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvjson/pkg/csv"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("csvjson", pflag.ContinueOnError)
	RegisterFlags(fs)
	return Load(fs, args)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Input)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, csv.DefaultOptions().Delimiter, cfg.CSV.Delimiter)
	assert.Equal(t, '"', cfg.CSV.Quote)
	assert.Equal(t, '"', cfg.CSV.QuoteEscape)
	assert.Equal(t, rune(0), cfg.CSV.Comment)
	assert.Equal(t, csv.MappingRowArrays, cfg.CSV.Mapping)
	assert.Equal(t, csv.ErrorModeAbort, cfg.CSV.OnError)
	assert.Nil(t, cfg.CSV.ColumnTypes)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := load(t,
		"-d", "tab",
		"--quote", "'",
		"--escape", `\`,
		"--comment", "#",
		"-H",
		"-m", "objects",
		"--column-types", "integer,float",
		"--column-names", "a,b",
		"--column-defaults", "0",
		"--trim",
		"--trim-trailing-inside-quotes",
		"--max-lines", "10",
		"--on-error", "warn",
		"-f", "YAML",
		"--flow-rows",
		"-o", "out.yaml",
		"input.csv",
	)
	require.NoError(t, err)

	opts := cfg.CSV
	assert.Equal(t, '\t', opts.Delimiter)
	assert.Equal(t, '\'', opts.Quote)
	assert.Equal(t, '\\', opts.QuoteEscape)
	assert.Equal(t, '#', opts.Comment)
	assert.True(t, opts.AssumeHeader)
	assert.Equal(t, csv.MappingObjectRows, opts.Mapping)
	assert.Equal(t, []csv.ColumnType{csv.TypeInteger, csv.TypeFloat}, opts.ColumnTypes)
	assert.Equal(t, []string{"a", "b"}, opts.ColumnNames)
	assert.Equal(t, []string{"0"}, opts.ColumnDefaults)
	assert.True(t, opts.TrimLeading)
	assert.True(t, opts.TrimTrailing)
	assert.False(t, opts.TrimLeadingInsideQuotes)
	assert.True(t, opts.TrimTrailingInsideQuotes)
	assert.Equal(t, 10, opts.MaxLines)
	assert.Equal(t, csv.ErrorModeWarn, opts.OnError)

	assert.Equal(t, FormatYAML, cfg.Format)
	assert.True(t, cfg.FlowRows)
	assert.Equal(t, "out.yaml", cfg.Output)
	assert.Equal(t, "input.csv", cfg.Input)
}

func TestLoad_Schema(t *testing.T) {
	cfg, err := load(t, "--schema", "id:integer=0,name,ok:boolean")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "ok"}, cfg.CSV.ColumnNames)
	assert.Equal(t, []csv.ColumnType{csv.TypeInteger, csv.TypeString, csv.TypeBoolean}, cfg.CSV.ColumnTypes)
	assert.Equal(t, []string{"0", "", ""}, cfg.CSV.ColumnDefaults)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CSVJSON_DELIMITER", ";")
	t.Setenv("CSVJSON_HEADER_LINES", "2")
	t.Setenv("CSVJSON_MAPPING", "columns")
	t.Setenv("CSVJSON_COLUMN_NAMES", "x,y")
	t.Setenv("CSVJSON_FORMAT", "yaml")

	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, ';', cfg.CSV.Delimiter)
	assert.Equal(t, 2, cfg.CSV.HeaderLines)
	assert.Equal(t, csv.MappingColumnMajor, cfg.CSV.Mapping)
	assert.Equal(t, []string{"x", "y"}, cfg.CSV.ColumnNames)
	assert.Equal(t, FormatYAML, cfg.Format)

	// Flags set on the command line win.
	cfg, err = load(t, "--delimiter", "|")
	require.NoError(t, err)
	assert.Equal(t, '|', cfg.CSV.Delimiter)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csvjson.yaml")
	content := "delimiter: \"|\"\n" +
		"assume-header: true\n" +
		"mapping: objects\n" +
		"column-types: integer\n" +
		"indent: 2\n" +
		"log-level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := load(t, "--config", path, "--indent", "4")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, '|', cfg.CSV.Delimiter)
	assert.True(t, cfg.CSV.AssumeHeader)
	assert.Equal(t, csv.MappingObjectRows, cfg.CSV.Mapping)
	assert.Equal(t, []csv.ColumnType{csv.TypeInteger}, cfg.CSV.ColumnTypes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Indent)
}

func TestLoad_StructuredDefaults(t *testing.T) {
	want := []string{"[1,2]", "0"}

	cfg, err := load(t, "--column-defaults", `"[1,2]",0`)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.CSV.ColumnDefaults)

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CSVJSON_COLUMN_DEFAULTS", `"[1,2]", 0`)
		cfg, err := load(t)
		require.NoError(t, err)
		assert.Equal(t, want, cfg.CSV.ColumnDefaults)
	})

	t.Run("config file list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "csvjson.yaml")
		require.NoError(t, os.WriteFile(path, []byte("column-defaults: [\"[1,2]\", \"0\"]\n"), 0o600))
		cfg, err := load(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, want, cfg.CSV.ColumnDefaults)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown flag", []string{"--bogus"}, "parsing flags"},
		{"bad delimiter", []string{"-d", "ab"}, "parsing flags"},
		{"bad mapping", []string{"-m", "tree"}, "parsing flags"},
		{"bad format", []string{"-f", "xml"}, "unknown output format"},
		{"negative indent", []string{"--indent", "-1"}, "indent must not be negative"},
		{"bad column type", []string{"--column-types", "date"}, "option column-types"},
		{"bad schema", []string{"--schema", ":integer"}, "option schema"},
		{"bad error mode", []string{"--on-error", "explode"}, "option on-error"},
		{"quote equals delimiter", []string{"--quote", ","}, "invalid CSV options"},
		{"two inputs", []string{"a.csv", "b.csv"}, "at most one input file"},
		{"missing config file", []string{"--config", "/nonexistent/csvjson.yaml"}, "reading config file"},
		{"bad sniff size", []string{"--sniff", "--sniff-bytes", "0"}, "sniff-bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", 0},
		{"none", 0},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"\t", '\t'},
		{"space", ' '},
		{";", ';'},
		{"§", '§'},
	}
	for _, tt := range tests {
		got, err := parseRune(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"ab", "\xff"} {
		_, err := parseRune(bad)
		assert.Error(t, err, bad)
	}
}

func TestFlagValues(t *testing.T) {
	r := runeValue('\t')
	assert.Equal(t, `\t`, r.String())
	require.NoError(t, r.Set(";"))
	assert.Equal(t, ";", r.String())
	assert.Equal(t, "char", r.Type())

	m := mappingValue(csv.MappingRowArrays)
	require.NoError(t, m.Set("m_columns"))
	assert.Equal(t, "columns", m.String())
	assert.Equal(t, "mapping", m.Type())
	assert.Error(t, m.Set("tree"))
}
