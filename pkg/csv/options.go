package csv

import (
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-csvjson/internal/parser"
)

// Mapping selects the shape of the structural output.
type Mapping = parser.Mapping

const (
	// MappingRowArrays produces an array of arrays, one per record.
	MappingRowArrays = parser.MappingRowArrays
	// MappingObjectRows produces an array of objects keyed by column name.
	MappingObjectRows = parser.MappingObjectRows
	// MappingColumnMajor produces one object holding an array per column.
	// The whole input is buffered until the end.
	MappingColumnMajor = parser.MappingColumnMajor
)

// ColumnType is the declared type of a column.
type ColumnType = parser.ColumnType

const (
	TypeString  = parser.TypeString
	TypeInteger = parser.TypeInteger
	TypeFloat   = parser.TypeFloat
	TypeBoolean = parser.TypeBoolean
)

// ParseMapping parses a mapping name: rows, objects or columns (also
// n_rows, n_objects and m_columns).
func ParseMapping(name string) (Mapping, error) {
	return parser.ParseMapping(name)
}

// ParseColumnType parses a column type name: string, integer, float or
// boolean.
func ParseColumnType(name string) (ColumnType, error) {
	return parser.ParseColumnType(name)
}

// ParseColumnTypes parses a comma-separated list of column type names.
//
// Example:
//
//	types, err := csv.ParseColumnTypes("integer,string,float")
func ParseColumnTypes(list string) ([]ColumnType, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	types := make([]ColumnType, len(parts))
	for i, part := range parts {
		t, err := parser.ParseColumnType(part)
		if err != nil {
			return nil, &OptionsError{Field: "ColumnTypes", Message: err.Error()}
		}
		types[i] = t
	}
	return types, nil
}

// Options configures CSV parsing.
type Options struct {
	// Delimiter separates fields.
	// It must not be \r, \n, the quote character or the Unicode replacement
	// character.
	// Default: ','
	Delimiter rune

	// Quote encloses fields that contain delimiters or line breaks.
	// Default: '"'
	Quote rune

	// QuoteEscape escapes a quote inside a quoted field. When it equals Quote,
	// a doubled quote stands for one literal quote.
	// Default: same as Quote
	QuoteEscape rune

	// Comment, if not 0, is the comment character. Lines beginning with the
	// Comment character in column 1 are ignored.
	// Default: 0 (disabled)
	Comment rune

	// HeaderLines is the number of leading lines forming the header. Column
	// names are taken from the first one.
	// Default: 0
	HeaderLines int

	// AssumeHeader treats the first line as the header.
	// Default: false
	AssumeHeader bool

	// Mapping selects the output shape.
	// Default: MappingRowArrays
	Mapping Mapping

	// ColumnNames overrides the names read from the header.
	ColumnNames []string

	// ColumnTypes declares the type of each column by position. Columns
	// without a declared type are emitted as strings.
	ColumnTypes []ColumnType

	// ColumnDefaults holds a JSON literal per column, used when a typed
	// field cannot be converted or a string field is empty.
	ColumnDefaults []string

	// TrimLeading and TrimTrailing strip whitespace around unquoted fields.
	TrimLeading  bool
	TrimTrailing bool

	// TrimLeadingInsideQuotes and TrimTrailingInsideQuotes strip whitespace
	// inside quoted fields.
	TrimLeadingInsideQuotes  bool
	TrimTrailingInsideQuotes bool

	// IgnoreEmptyValues omits empty fields from MappingObjectRows records.
	IgnoreEmptyValues bool

	// UnquotedEmptyValueIsNull emits null for empty unquoted fields.
	UnquotedEmptyValueIsNull bool

	// MaxLines stops parsing after this many lines.
	// Default: 0 (unlimited)
	MaxLines int

	// OnError selects what happens on a structural error. It is ignored
	// when ErrorHandler is set.
	// Default: ErrorModeAbort
	OnError ErrorMode

	// ErrorHandler, if set, decides on every structural error.
	ErrorHandler ErrorHandler

	// WarningCallback is invoked for every value that fell back to a default
	// or null, and for ErrorModeWarn errors.
	WarningCallback WarningHandler
}

// DefaultOptions returns the default parsing configuration.
func DefaultOptions() Options {
	return Options{
		Delimiter:   ',',
		Quote:       '"',
		QuoteEscape: '"',
		Mapping:     MappingRowArrays,
		OnError:     ErrorModeAbort,
	}
}

// validDelim reports whether r is a valid field delimiter.
func validDelim(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the options are valid.
// Zero characters are valid and stand for their defaults.
func (o Options) Validate() error {
	n := o.toParser()

	if !validDelim(n.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if !validDelim(n.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if n.Quote == n.Delimiter {
		return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	}
	if !validDelim(n.QuoteEscape) {
		return &OptionsError{Field: "QuoteEscape", Message: "invalid escape character"}
	}
	if o.Comment != 0 && !validDelim(o.Comment) {
		return &OptionsError{Field: "Comment", Message: "invalid comment character"}
	}
	if o.Comment != 0 && o.Comment == n.Delimiter {
		return &OptionsError{Field: "Comment", Message: "comment character same as delimiter"}
	}
	if o.HeaderLines < 0 {
		return &OptionsError{Field: "HeaderLines", Message: "must not be negative"}
	}
	if o.MaxLines < 0 {
		return &OptionsError{Field: "MaxLines", Message: "must not be negative"}
	}
	if o.Mapping > MappingColumnMajor {
		return &OptionsError{Field: "Mapping", Message: "unknown mapping " + o.Mapping.String()}
	}
	for _, t := range o.ColumnTypes {
		if t > TypeBoolean {
			return &OptionsError{Field: "ColumnTypes", Message: "unknown type " + t.String()}
		}
	}
	return nil
}

// toParser converts the options to the transducer configuration.
func (o Options) toParser() parser.Options {
	p := parser.Options{
		Delimiter:                o.Delimiter,
		Quote:                    o.Quote,
		QuoteEscape:              o.QuoteEscape,
		Comment:                  o.Comment,
		HeaderLines:              o.HeaderLines,
		AssumeHeader:             o.AssumeHeader,
		Mapping:                  o.Mapping,
		ColumnNames:              o.ColumnNames,
		ColumnTypes:              o.ColumnTypes,
		ColumnDefaults:           o.ColumnDefaults,
		TrimLeading:              o.TrimLeading,
		TrimTrailing:             o.TrimTrailing,
		TrimLeadingInsideQuotes:  o.TrimLeadingInsideQuotes,
		TrimTrailingInsideQuotes: o.TrimTrailingInsideQuotes,
		IgnoreEmptyValues:        o.IgnoreEmptyValues,
		UnquotedEmptyValueIsNull: o.UnquotedEmptyValueIsNull,
		MaxLines:                 o.MaxLines,
		ErrorHandler:             o.errorHandler(),
		WarningCallback:          o.WarningCallback,
	}
	if p.Delimiter == 0 {
		p.Delimiter = ','
	}
	if p.Quote == 0 {
		p.Quote = '"'
	}
	if p.QuoteEscape == 0 {
		p.QuoteEscape = p.Quote
	}
	return p
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
