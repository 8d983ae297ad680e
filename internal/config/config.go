// Package config loads the csvjson command configuration from flags,
// CSVJSON_* environment variables and an optional config file.
//
// Precedence, highest first: flags set on the command line, environment
// variables, the config file, flag defaults.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shapestone/shape-csvjson/pkg/csv"
)

// EnvPrefix prefixes the environment variable of every option. Dashes in
// option names become underscores: CSVJSON_HEADER_LINES.
const EnvPrefix = "CSVJSON"

// Option keys, shared by flags, environment variables and config files.
const (
	KeyConfig                   = "config"
	KeyOutput                   = "output"
	KeyFormat                   = "format"
	KeyIndent                   = "indent"
	KeyFlowRows                 = "flow-rows"
	KeyEncoding                 = "encoding"
	KeySniff                    = "sniff"
	KeySniffBytes               = "sniff-bytes"
	KeyLogLevel                 = "log-level"
	KeyLogFormat                = "log-format"
	KeyDelimiter                = "delimiter"
	KeyQuote                    = "quote"
	KeyEscape                   = "escape"
	KeyComment                  = "comment"
	KeyHeaderLines              = "header-lines"
	KeyAssumeHeader             = "assume-header"
	KeyMapping                  = "mapping"
	KeySchema                   = "schema"
	KeyColumnNames              = "column-names"
	KeyColumnTypes              = "column-types"
	KeyColumnDefaults           = "column-defaults"
	KeyTrim                     = "trim"
	KeyTrimLeading              = "trim-leading"
	KeyTrimTrailing             = "trim-trailing"
	KeyTrimInsideQuotes         = "trim-inside-quotes"
	KeyTrimLeadingInsideQuotes  = "trim-leading-inside-quotes"
	KeyTrimTrailingInsideQuotes = "trim-trailing-inside-quotes"
	KeyIgnoreEmptyValues        = "ignore-empty-values"
	KeyUnquotedEmptyIsNull      = "unquoted-empty-null"
	KeyMaxLines                 = "max-lines"
	KeyOnError                  = "on-error"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the complete command configuration.
type Config struct {
	// CSV holds the parser options.
	CSV csv.Options

	// Input is the file to read; empty or "-" means standard input.
	Input string
	// Output is the file to write; empty or "-" means standard output.
	Output string
	// Format is FormatJSON or FormatYAML.
	Format string
	// Indent pretty prints JSON with this many spaces per level.
	Indent int
	// FlowRows writes each YAML record on one line.
	FlowRows bool
	// Encoding is the input character set, by WHATWG name.
	Encoding string
	// Sniff detects the delimiter and header from the first SniffBytes of
	// input.
	Sniff      bool
	SniffBytes int

	LogLevel  string
	LogFormat string

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// RegisterFlags defines every option on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "config file (YAML, JSON or TOML)")
	fs.StringP(KeyOutput, "o", "", "output file (default standard output)")
	fs.StringP(KeyFormat, "f", FormatJSON, "output format: json or yaml")
	fs.Int(KeyIndent, 0, "JSON indentation in spaces (0 for compact)")
	fs.Bool(KeyFlowRows, false, "write each YAML record on one line")
	fs.StringP(KeyEncoding, "e", "utf-8", "input character set")
	fs.Bool(KeySniff, false, "detect delimiter and header from the input")
	fs.Int(KeySniffBytes, 4096, "bytes of input examined by --sniff")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn or error")
	fs.String(KeyLogFormat, "text", "log format: text or json")

	delim := runeValue(',')
	fs.VarP(&delim, KeyDelimiter, "d", "field delimiter (a single character, or tab)")
	quote := runeValue('"')
	fs.Var(&quote, KeyQuote, "quote character")
	escape := runeValue(0)
	fs.Var(&escape, KeyEscape, "quote escape character (default same as quote)")
	comment := runeValue(0)
	fs.Var(&comment, KeyComment, "comment character, recognized in column 1")

	fs.Int(KeyHeaderLines, 0, "number of header lines")
	fs.BoolP(KeyAssumeHeader, "H", false, "treat the first line as the header")
	mapping := mappingValue(csv.MappingRowArrays)
	fs.VarP(&mapping, KeyMapping, "m", "output shape: rows, objects or columns")
	fs.String(KeySchema, "", "columns as name[:type][=default],...")
	fs.StringSlice(KeyColumnNames, nil, "column names, overriding the header")
	fs.String(KeyColumnTypes, "", "column types: string, integer, float or boolean, comma separated")
	fs.StringSlice(KeyColumnDefaults, nil, "column default literals")

	fs.Bool(KeyTrim, false, "trim whitespace around unquoted fields")
	fs.Bool(KeyTrimLeading, false, "trim leading whitespace of unquoted fields")
	fs.Bool(KeyTrimTrailing, false, "trim trailing whitespace of unquoted fields")
	fs.Bool(KeyTrimInsideQuotes, false, "trim whitespace inside quoted fields")
	fs.Bool(KeyTrimLeadingInsideQuotes, false, "trim leading whitespace inside quoted fields")
	fs.Bool(KeyTrimTrailingInsideQuotes, false, "trim trailing whitespace inside quoted fields")
	fs.Bool(KeyIgnoreEmptyValues, false, "omit empty fields from object records")
	fs.Bool(KeyUnquotedEmptyIsNull, false, "emit null for empty unquoted fields")
	fs.Int(KeyMaxLines, 0, "stop after this many lines (0 for no limit)")
	fs.String(KeyOnError, "abort", "on structural errors: abort, warn or ignore")
}

// Load parses args with fs, which must have been set up by RegisterFlags,
// and resolves the configuration.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parsing flags")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}

	cfg := &Config{}
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
		cfg.ConfigFile = v.ConfigFileUsed()
	}

	if fs.NArg() > 1 {
		return nil, errors.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	cfg.Input = fs.Arg(0)

	cfg.Output = v.GetString(KeyOutput)
	cfg.Format = strings.ToLower(v.GetString(KeyFormat))
	cfg.Indent = v.GetInt(KeyIndent)
	cfg.FlowRows = v.GetBool(KeyFlowRows)
	cfg.Encoding = v.GetString(KeyEncoding)
	cfg.Sniff = v.GetBool(KeySniff)
	cfg.SniffBytes = v.GetInt(KeySniffBytes)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.LogFormat = v.GetString(KeyLogFormat)

	switch cfg.Format {
	case FormatJSON, FormatYAML:
	default:
		return nil, errors.Errorf("unknown output format %q", cfg.Format)
	}
	if cfg.Indent < 0 {
		return nil, errors.Errorf("indent must not be negative, got %d", cfg.Indent)
	}
	if cfg.Sniff && cfg.SniffBytes <= 0 {
		return nil, errors.Errorf("sniff-bytes must be positive, got %d", cfg.SniffBytes)
	}

	opts, err := loadOptions(fs, v)
	if err != nil {
		return nil, err
	}
	cfg.CSV = opts
	return cfg, nil
}

// loadOptions materializes the parser options from v.
func loadOptions(fs *pflag.FlagSet, v *viper.Viper) (csv.Options, error) {
	opts := csv.DefaultOptions()

	runes := []struct {
		key    string
		target *rune
	}{
		{KeyDelimiter, &opts.Delimiter},
		{KeyQuote, &opts.Quote},
		{KeyEscape, &opts.QuoteEscape},
		{KeyComment, &opts.Comment},
	}
	for _, r := range runes {
		c, err := parseRune(v.GetString(r.key))
		if err != nil {
			return opts, errors.Wrapf(err, "option %s", r.key)
		}
		*r.target = c
	}
	if opts.QuoteEscape == 0 {
		opts.QuoteEscape = opts.Quote
	}

	mapping, err := csv.ParseMapping(v.GetString(KeyMapping))
	if err != nil {
		return opts, errors.Wrapf(err, "option %s", KeyMapping)
	}
	opts.Mapping = mapping

	opts.HeaderLines = v.GetInt(KeyHeaderLines)
	opts.AssumeHeader = v.GetBool(KeyAssumeHeader)
	opts.MaxLines = v.GetInt(KeyMaxLines)

	if opts.ColumnNames, err = stringList(fs, v, KeyColumnNames); err != nil {
		return opts, errors.Wrapf(err, "option %s", KeyColumnNames)
	}
	if opts.ColumnTypes, err = csv.ParseColumnTypes(v.GetString(KeyColumnTypes)); err != nil {
		return opts, errors.Wrapf(err, "option %s", KeyColumnTypes)
	}
	if opts.ColumnDefaults, err = stringList(fs, v, KeyColumnDefaults); err != nil {
		return opts, errors.Wrapf(err, "option %s", KeyColumnDefaults)
	}
	if text := v.GetString(KeySchema); text != "" {
		schema, err := csv.ParseSchema(text)
		if err != nil {
			return opts, errors.Wrapf(err, "option %s", KeySchema)
		}
		opts = schema.Apply(opts)
	}

	trim := v.GetBool(KeyTrim)
	trimInside := v.GetBool(KeyTrimInsideQuotes)
	opts.TrimLeading = trim || v.GetBool(KeyTrimLeading)
	opts.TrimTrailing = trim || v.GetBool(KeyTrimTrailing)
	opts.TrimLeadingInsideQuotes = trimInside || v.GetBool(KeyTrimLeadingInsideQuotes)
	opts.TrimTrailingInsideQuotes = trimInside || v.GetBool(KeyTrimTrailingInsideQuotes)
	opts.IgnoreEmptyValues = v.GetBool(KeyIgnoreEmptyValues)
	opts.UnquotedEmptyValueIsNull = v.GetBool(KeyUnquotedEmptyIsNull)

	if opts.OnError, err = csv.ParseErrorMode(v.GetString(KeyOnError)); err != nil {
		return opts, errors.Wrapf(err, "option %s", KeyOnError)
	}

	if err := opts.Validate(); err != nil {
		return opts, errors.Wrap(err, "invalid CSV options")
	}
	return opts, nil
}

// stringList reads a list option. Flags and config file lists are already
// split; a plain string from the environment or a config file is read as one
// CSV record, so quoted items may hold commas: "[1,2]",0.
func stringList(fs *pflag.FlagSet, v *viper.Viper, key string) ([]string, error) {
	if f := fs.Lookup(key); f != nil && f.Changed {
		return fs.GetStringSlice(key)
	}
	text, ok := v.Get(key).(string)
	if !ok {
		if list := v.GetStringSlice(key); len(list) > 0 {
			return list, nil
		}
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	opts := csv.DefaultOptions()
	opts.TrimLeading = true
	opts.TrimTrailing = true
	opts.MaxLines = 1
	value, err := csv.Decode(text, opts)
	if err != nil {
		return nil, err
	}
	var list []string
	if rows, ok := value.([]interface{}); ok && len(rows) > 0 {
		if fields, ok := rows[0].([]interface{}); ok {
			for _, field := range fields {
				list = append(list, fmt.Sprint(field))
			}
		}
	}
	return list, nil
}

// parseRune accepts a single character, an escape such as \t, or one of the
// names tab, space, none. Empty and none mean 0.
func parseRune(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return ' ', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return r, nil
}

// runeValue is a flag holding one character.
type runeValue rune

var _ pflag.Value = new(runeValue)

func (r runeValue) String() string {
	switch r {
	case 0:
		return ""
	case '\t':
		return `\t`
	}
	return string(rune(r))
}

func (r *runeValue) Set(text string) error {
	c, err := parseRune(text)
	if err != nil {
		return err
	}
	*r = runeValue(c)
	return nil
}

func (r runeValue) Type() string {
	return "char"
}

// mappingValue is a flag holding an output mapping.
type mappingValue csv.Mapping

var _ pflag.Value = new(mappingValue)

func (m mappingValue) String() string {
	return csv.Mapping(m).String()
}

func (m *mappingValue) Set(text string) error {
	mapping, err := csv.ParseMapping(text)
	if err != nil {
		return err
	}
	*m = mappingValue(mapping)
	return nil
}

func (m mappingValue) Type() string {
	return "mapping"
}
