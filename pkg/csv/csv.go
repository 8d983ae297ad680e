// Package csv converts CSV text into structured data.
//
// The core is an incremental, push-based parser: characters are fed in
// chunks of any size and turned into structural events (arrays, objects,
// names and typed scalars) as soon as field and record boundaries are known.
// Events go to a Handler, which may build a tree, encode JSON or YAML on the
// fly, or do anything else.
//
// # Output shapes
//
// Three mappings are supported:
//
//   - MappingRowArrays: [["a","b"],["1","2"]]
//   - MappingObjectRows: [{"a":"1","b":"2"}] using the header or ColumnNames
//   - MappingColumnMajor: {"a":["1"],"b":["2"]}
//
// Fields are strings unless a ColumnType is declared for their column.
// Typed fields that fail conversion fall back to the column default literal,
// or null, and never cause an error.
//
// # Parsing APIs
//
//   - Parse(string, Options) / ParseReader(io.Reader, Options) build a
//     shape-core AST
//   - Decode(string, Options) builds plain Go values
//   - Transcode(io.Reader, Handler, Options) streams events to any Handler
//   - NewParser(Handler, Options) gives direct access to the push parser
//   - NewScanner(io.Reader, Options) yields one record at a time
//
// # Example usage with Parse:
//
//	opts := csv.DefaultOptions()
//	opts.AssumeHeader = true
//	opts.Mapping = csv.MappingObjectRows
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25", opts)
//	if err != nil {
//	    // handle error
//	}
//	// node is an *ast.ArrayDataNode of *ast.ObjectNode records
//
// # Example usage with Transcode:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	enc := csv.NewJSONEncoder(os.Stdout, 2)
//	if err := csv.Transcode(file, enc, opts); err != nil {
//	    // handle error
//	}
//
// # Thread Safety
//
// The package-level functions are safe for concurrent use: each call owns
// its parser. A Parser or Scanner must be used by one goroutine at a time.
package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-csvjson/internal/builder"
	"github.com/shapestone/shape-csvjson/internal/parser"
)

// readChunk is the number of characters fed to the parser at once when
// reading from a stream.
const readChunk = 4096

// Parse parses CSV into an AST from a string.
//
// The result is an *ast.ArrayDataNode of records for the row mappings, or an
// *ast.ObjectNode of columns for MappingColumnMajor. Records are
// *ast.ArrayDataNode or *ast.ObjectNode; values are *ast.LiteralNode holding
// a string, int64, float64, bool or nil. Nodes carry the position at which
// they were completed.
//
// Example:
//
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25", csv.DefaultOptions())
//	records := node.(*ast.ArrayDataNode).Elements()
//	// records[0] is the row name,age
func Parse(input string, opts Options) (ast.SchemaNode, error) {
	b, p, err := newASTParser(opts)
	if err != nil {
		return nil, err
	}
	if err := p.FeedString(input); err != nil {
		return nil, err
	}
	if err := p.End(); err != nil {
		return nil, err
	}
	return b.Result(), nil
}

// ParseReader parses CSV into an AST from an io.Reader.
//
// The reader is consumed through a buffered shape-core stream and fed to the
// parser in chunks, so only the resulting tree is held in memory.
//
// Example:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	node, err := csv.ParseReader(file, csv.DefaultOptions())
func ParseReader(reader io.Reader, opts Options) (ast.SchemaNode, error) {
	b, p, err := newASTParser(opts)
	if err != nil {
		return nil, err
	}

	stream := tokenizer.NewStreamFromReader(reader)
	chunk := make([]rune, 0, readChunk)
	for !p.Done() {
		r, ok := stream.PeekChar()
		if !ok {
			break
		}
		stream.NextChar()
		chunk = append(chunk, r)
		if len(chunk) == cap(chunk) {
			if err := p.Feed(chunk); err != nil {
				return nil, err
			}
			chunk = chunk[:0]
		}
	}
	if err := p.Feed(chunk); err != nil {
		return nil, err
	}
	if err := p.End(); err != nil {
		return nil, err
	}
	return b.Result(), nil
}

func newASTParser(opts Options) (*builder.AST, *parser.Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	b := builder.NewAST(nil)
	p := parser.NewParser(b, opts.toParser())
	b.SetLocator(p)
	return b, p, nil
}

// Decode parses CSV into plain Go values: []interface{},
// map[string]interface{}, string, int64, float64, bool and nil.
//
// Example:
//
//	v, err := csv.Decode("a,b\n1,2", opts)
//	// with MappingObjectRows and AssumeHeader:
//	// []interface{}{map[string]interface{}{"a": "1", "b": "2"}}
func Decode(input string, opts Options) (interface{}, error) {
	var b builder.Native
	p, err := NewParser(&b, opts)
	if err != nil {
		return nil, err
	}
	if err := p.FeedString(input); err != nil {
		return nil, err
	}
	if err := p.End(); err != nil {
		return nil, err
	}
	return b.Result(), nil
}

// Transcode reads UTF-8 CSV from r and sends the resulting events to h.
//
// Nothing is buffered except under MappingColumnMajor, which makes
// Transcode suitable for inputs larger than memory when paired with a
// streaming Handler such as the one returned by NewJSONEncoder.
func Transcode(r io.Reader, h Handler, opts Options) error {
	p, err := NewParser(h, opts)
	if err != nil {
		return err
	}
	if _, err := io.Copy(p, r); err != nil {
		return err
	}
	return p.End()
}

// Format returns the format identifier for this parser.
// Returns "CSV" to identify this as the CSV data format parser.
func Format() string {
	return "CSV"
}

// Validate checks if the input string parses without a structural error.
//
// Values that do not match a declared column type are not errors; use
// WarningCallback to detect them.
//
//	if err := csv.Validate(input, opts); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string, opts Options) error {
	p, err := NewParser(Discard, opts)
	if err != nil {
		return err
	}
	if err := p.FeedString(input); err != nil {
		return err
	}
	return p.End()
}

// ValidateReader checks if the input from an io.Reader parses without a
// structural error. The input is streamed, not read into memory.
func ValidateReader(reader io.Reader, opts Options) error {
	return Transcode(reader, Discard, opts)
}
