package parser

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-csvjson/internal/event"
	"github.com/shapestone/shape-csvjson/internal/literal"
)

// Mapping selects how records are shaped into structural events.
type Mapping uint8

const (
	// MappingRowArrays emits an array of arrays, one inner array per record.
	MappingRowArrays Mapping = iota
	// MappingObjectRows emits an array of objects keyed by column name.
	MappingObjectRows
	// MappingColumnMajor emits one object holding an array per column. The
	// whole input is buffered until end of input.
	MappingColumnMajor
)

// String returns the mapping name.
func (m Mapping) String() string {
	switch m {
	case MappingRowArrays:
		return "rows"
	case MappingObjectRows:
		return "objects"
	case MappingColumnMajor:
		return "columns"
	default:
		return fmt.Sprintf("Mapping(%d)", m)
	}
}

// ParseMapping parses a mapping name. Both the short names returned by
// String and the n_rows/n_objects/m_columns spellings are accepted.
func ParseMapping(name string) (Mapping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rows", "n_rows", "":
		return MappingRowArrays, nil
	case "objects", "n_objects":
		return MappingObjectRows, nil
	case "columns", "m_columns":
		return MappingColumnMajor, nil
	default:
		return 0, fmt.Errorf("unknown mapping %q", name)
	}
}

// ColumnType is the declared type of a column, used for coercion.
type ColumnType uint8

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
)

// String returns the type name.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("ColumnType(%d)", t)
	}
}

// ParseColumnType parses a type name, case-insensitively.
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "float", "double":
		return TypeFloat, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", name)
	}
}

// DefaultParser expands a column default literal into events.
type DefaultParser interface {
	ParseDefault(text string, h event.Handler) error
}

// DefaultParserFunc adapts a function to the DefaultParser interface.
type DefaultParserFunc func(text string, h event.Handler) error

// ParseDefault calls f.
func (f DefaultParserFunc) ParseDefault(text string, h event.Handler) error {
	return f(text, h)
}

// LiteralDefaults parses defaults as JSON literals.
var LiteralDefaults DefaultParser = DefaultParserFunc(literal.Parse)

// Options configures the transducer.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Quote encloses fields. Zero means '"'.
	Quote rune
	// QuoteEscape escapes a quote inside a quoted field. Zero means the same
	// character as Quote, i.e. doubled-quote escaping.
	QuoteEscape rune
	// Comment starts a comment line when found in column 1. Zero disables
	// comments.
	Comment rune

	// HeaderLines is the number of leading lines that form the header.
	HeaderLines int
	// AssumeHeader treats the first line as a header, implying at least one
	// header line.
	AssumeHeader bool

	Mapping Mapping

	// ColumnNames overrides the names read from the header line.
	ColumnNames []string
	// ColumnTypes declares a type per column index. Columns beyond the list
	// are emitted as raw strings.
	ColumnTypes []ColumnType
	// ColumnDefaults holds a literal per column index used when coercion
	// fails or a string field is empty. Empty entries mean no default.
	ColumnDefaults []string

	TrimLeading              bool
	TrimTrailing             bool
	TrimLeadingInsideQuotes  bool
	TrimTrailingInsideQuotes bool

	// IgnoreEmptyValues skips empty fields under MappingObjectRows.
	IgnoreEmptyValues bool
	// UnquotedEmptyValueIsNull emits null for empty unquoted fields.
	UnquotedEmptyValueIsNull bool

	// MaxLines stops consuming input once this many lines have been read.
	// Zero means no limit.
	MaxLines int

	// Defaults expands column defaults. Nil means LiteralDefaults.
	Defaults DefaultParser
	// ErrorHandler receives structural errors. Nil means DefaultErrorHandler.
	ErrorHandler ErrorHandler
	// WarningCallback, if set, is told about every field that fell back to a
	// default or null during coercion, and about unusable default literals.
	WarningCallback func(line int, message string)
}

// DefaultOptions returns the default transducer configuration.
func DefaultOptions() Options {
	return Options{
		Delimiter:   ',',
		Quote:       '"',
		QuoteEscape: '"',
		Mapping:     MappingRowArrays,
	}
}

// normalized fills zero characters and collaborators with their defaults.
func (o Options) normalized() Options {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Quote == 0 {
		o.Quote = '"'
	}
	if o.QuoteEscape == 0 {
		o.QuoteEscape = o.Quote
	}
	if o.Defaults == nil {
		o.Defaults = LiteralDefaults
	}
	if o.ErrorHandler == nil {
		o.ErrorHandler = DefaultErrorHandler
	}
	return o
}

// EffectiveHeaderLines returns the number of header lines, accounting for
// AssumeHeader.
func (o Options) EffectiveHeaderLines() int {
	if o.AssumeHeader && o.HeaderLines < 1 {
		return 1
	}
	return o.HeaderLines
}
