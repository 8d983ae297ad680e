package csv

import (
	"io"

	"github.com/shapestone/shape-csvjson/internal/encoder"
	"github.com/shapestone/shape-csvjson/internal/event"
	"github.com/shapestone/shape-csvjson/internal/parser"
)

// Handler receives the structural events produced while parsing: document,
// array and object boundaries, member names and scalar values.
//
// Handlers are called synchronously from the goroutine feeding the parser
// and must not call back into it.
type Handler = event.Handler

// Recorder is a Handler that keeps every event, for inspection or replay.
type Recorder = event.Recorder

// Event is a single event kept by a Recorder.
type Event = event.Event

// Discard is a Handler that ignores every event.
var Discard Handler = event.Discard

// JSONEncoder is a Handler streaming JSON text to a writer.
type JSONEncoder = encoder.JSON

// YAMLEncoder is a Handler writing a YAML document to a writer.
type YAMLEncoder = encoder.YAML

// NewJSONEncoder creates a Handler that writes the events to w as JSON.
// A positive indent pretty prints with that many spaces per level.
//
// Output is flushed as records complete, so memory use stays constant for
// the row mappings.
func NewJSONEncoder(w io.Writer, indent int) *JSONEncoder {
	return encoder.NewJSON(w, indent)
}

// NewYAMLEncoder creates a Handler that writes the events to w as YAML once
// the document ends. With flowRows set each record is written on one line.
func NewYAMLEncoder(w io.Writer, flowRows bool) *YAMLEncoder {
	return encoder.NewYAML(w, flowRows)
}

// Parser is an incremental CSV parser. Input is pushed in chunks of any
// size with Feed, FeedString or Write, and End completes the document.
//
// Example:
//
//	enc := csv.NewJSONEncoder(os.Stdout, 0)
//	p, err := csv.NewParser(enc, csv.DefaultOptions())
//	if err != nil {
//	    // handle invalid options
//	}
//	for chunk := range chunks {
//	    if err := p.FeedString(chunk); err != nil {
//	        // handle error
//	    }
//	}
//	err = p.End()
//
// A Parser is not safe for concurrent use.
type Parser struct {
	p *parser.Parser
}

// NewParser creates a Parser sending its events to h.
func NewParser(h Handler, opts Options) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Parser{p: parser.NewParser(h, opts.toParser())}, nil
}

// Feed consumes a chunk of characters.
func (p *Parser) Feed(chunk []rune) error {
	return p.p.Feed(chunk)
}

// FeedString consumes the characters of s.
func (p *Parser) FeedString(s string) error {
	return p.p.FeedString(s)
}

// Write consumes UTF-8 encoded input, making the Parser an io.Writer.
func (p *Parser) Write(b []byte) (int, error) {
	return p.p.Write(b)
}

// End completes the document. The handler receives the closing events
// even when End reports an unexpected end of input.
func (p *Parser) End() error {
	return p.p.End()
}

// Done reports whether the parser stopped consuming input, because MaxLines
// was reached, an error aborted parsing or End was called.
func (p *Parser) Done() bool {
	return p.p.Done()
}

// ColumnNames returns the configured column names or those read from the
// header.
func (p *Parser) ColumnNames() []string {
	return p.p.ColumnNames()
}

// Offset returns the number of characters consumed.
func (p *Parser) Offset() int {
	return p.p.Offset()
}

// Line returns the current line (1-indexed).
func (p *Parser) Line() int {
	return p.p.Line()
}

// Column returns the current column (1-indexed).
func (p *Parser) Column() int {
	return p.p.Column()
}
