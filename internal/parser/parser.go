// Package parser implements the incremental CSV transducer.
//
// A Parser consumes characters pushed by the caller in chunks of any size and
// turns them into structural events (see package event) as soon as field and
// record boundaries are recognized. State survives between calls, so input can
// be streamed from any source; only MappingColumnMajor buffers field text
// until End.
//
// The transducer is a character-level state machine:
//
//	expect_value    -> comment | unquoted_string (same character re-dispatched)
//	unquoted_string -> quoted_string on a quote, expect_value on a delimiter or line end
//	quoted_string   -> escaped_value on the escape character, between_fields on the closing quote
//	escaped_value   -> quoted_string after an escaped quote
//	between_fields  -> expect_value on a delimiter or line end
//
// A Parser is not safe for concurrent use.
package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/shapestone/shape-csvjson/internal/event"
)

// Parser is a push-based CSV transducer.
type Parser struct {
	opts    Options
	handler event.Handler

	state  lexState
	modes  modeStack
	pos    position
	buffer []rune

	columnNames    []string
	columnTypes    []ColumnType
	columnDefaults []*event.Recorder
	columnValues   [][]string
	columnIndex    int

	partial []byte // incomplete UTF-8 sequence carried between Write calls
	runes   []rune // scratch space for Write

	err   error
	ended bool
}

// NewParser creates a Parser that sends its events to h.
func NewParser(h event.Handler, opts Options) *Parser {
	return &Parser{
		opts:    opts.normalized(),
		handler: h,
		state:   stateStart,
		pos:     newPosition(),
	}
}

// Feed consumes a chunk of characters. After the parser is done, either by
// reaching MaxLines or by an aborting error, Feed is a no-op that returns the
// abort error, if any.
func (p *Parser) Feed(chunk []rune) error {
	if p.err != nil {
		return p.err
	}
	if p.state == stateStart && len(chunk) > 0 {
		p.reset()
	}

	for _, c := range chunk {
		if p.state == stateDone {
			break
		}

		p.consume(c)
		if p.err != nil {
			p.state = stateDone
			return p.err
		}
		p.pos.advance(c)
		if p.opts.MaxLines > 0 && p.pos.line > p.opts.MaxLines {
			p.state = stateDone
		}
	}
	return nil
}

// FeedString consumes the characters of s.
func (p *Parser) FeedString(s string) error {
	return p.Feed([]rune(s))
}

// Write implements io.Writer over UTF-8 input. A multi-byte sequence split
// across two writes is reassembled.
func (p *Parser) Write(b []byte) (int, error) {
	n := len(b)
	if len(p.partial) > 0 {
		joined := make([]byte, 0, len(p.partial)+len(b))
		joined = append(joined, p.partial...)
		b = append(joined, b...)
		p.partial = p.partial[:0]
	}

	runes := p.runes[:0]
	for len(b) > 0 {
		if !utf8.FullRune(b) {
			p.partial = append(p.partial, b...)
			break
		}
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	p.runes = runes

	if err := p.Feed(runes); err != nil {
		return 0, err
	}
	return n, nil
}

// End signals end of input. It finalizes a pending field and record, closes
// the output containers and delivers EndDocument. Calling End more than once
// returns the first result.
func (p *Parser) End() error {
	if p.ended {
		return p.err
	}
	if len(p.partial) > 0 && p.err == nil {
		p.partial = p.partial[:0]
		_ = p.Feed([]rune{utf8.RuneError})
	}
	p.ended = true
	if p.err != nil {
		return p.err
	}
	if p.state == stateStart {
		p.reset()
	}

	switch p.state {
	case stateUnquotedString:
		p.beforeRecord()
		p.endUnquoted()
		p.afterField()
	case stateEscapedValue:
		if p.opts.QuoteEscape == p.opts.Quote {
			p.beforeRecord()
			p.endQuoted()
			p.afterField()
		}
	}
	if p.columnIndex > 0 {
		p.afterRecord()
	}

	if mode, ok := p.modes.peek(); ok && (mode == ModeHeader || mode == ModeData) {
		p.modes.pop(mode)
	}
	if p.opts.Mapping == MappingColumnMajor {
		p.emitColumns()
	} else {
		p.handler.EndArray()
	}
	if !p.modes.pop(ModeInitial) {
		p.report(ErrorUnexpectedEOF)
	}
	p.handler.EndDocument()
	p.state = stateDone
	return p.err
}

// Done reports whether the parser stopped consuming input.
func (p *Parser) Done() bool {
	return p.state == stateDone
}

// ColumnNames returns the configured column names followed by any read from
// the header line.
func (p *Parser) ColumnNames() []string {
	return p.columnNames
}

// Offset returns the number of characters consumed so far.
func (p *Parser) Offset() int {
	return p.pos.offset
}

// Line returns the current 1-based line.
func (p *Parser) Line() int {
	return p.pos.line
}

// Column returns the current 1-based column.
func (p *Parser) Column() int {
	return p.pos.column
}

// reset starts the document on the first consumed character.
func (p *Parser) reset() {
	p.modes.push(ModeInitial)
	p.handler.BeginDocument()

	p.columnNames = append([]string(nil), p.opts.ColumnNames...)
	p.columnTypes = p.opts.ColumnTypes
	p.columnDefaults = p.loadDefaults()
	p.columnValues = make([][]string, len(p.columnNames))

	if p.opts.EffectiveHeaderLines() > 0 {
		p.modes.push(ModeHeader)
	} else {
		p.modes.push(ModeData)
	}
	if p.opts.Mapping != MappingColumnMajor {
		p.handler.BeginArray()
	}
	p.state = stateExpectValue
	p.columnIndex = 0
}

// consume runs c through the state machine. A transition that hands the same
// character to the state it just entered asks for re-dispatch.
func (p *Parser) consume(c rune) {
	for p.step(c) {
	}
}

// step handles c in the current state and reports whether c must be
// dispatched again against the new state.
func (p *Parser) step(c rune) bool {
	switch p.state {
	case stateComment:
		if c == '\n' {
			p.state = stateExpectValue
		} else if p.pos.prev == '\r' {
			p.state = stateExpectValue
			return true
		}

	case stateExpectValue:
		if p.pos.column == 1 && p.opts.Comment != 0 && c == p.opts.Comment {
			p.state = stateComment
			return false
		}
		p.state = stateUnquotedString
		return true

	case stateBetweenFields:
		switch {
		case p.isLineEnd(c):
			p.afterRecord()
			p.state = stateExpectValue
		case c == p.opts.Delimiter:
			p.state = stateExpectValue
		}
		// Anything else after a closing quote is ignored.

	case stateEscapedValue:
		switch {
		case c == p.opts.Quote:
			p.buffer = append(p.buffer, c)
			p.state = stateQuotedString
		case p.opts.QuoteEscape == p.opts.Quote:
			// The previous quote closed the field.
			p.beforeRecord()
			p.endQuoted()
			p.afterField()
			p.state = stateBetweenFields
			return true
		default:
			// A distinct escape character only escapes the quote; anything
			// else following it is dropped.
			p.state = stateQuotedString
		}

	case stateQuotedString:
		switch c {
		case p.opts.QuoteEscape:
			p.state = stateEscapedValue
		case p.opts.Quote:
			p.beforeRecord()
			p.endQuoted()
			p.afterField()
			p.state = stateBetweenFields
		default:
			p.buffer = append(p.buffer, c)
		}

	case stateUnquotedString:
		switch {
		case p.isLineEnd(c):
			p.beforeRecord()
			p.endUnquoted()
			p.afterField()
			p.afterRecord()
			p.state = stateExpectValue
		case c == '\n':
			// Second half of CR LF; the record already ended on CR.
			p.state = stateExpectValue
		case c == p.opts.Delimiter:
			p.beforeRecord()
			p.endUnquoted()
			p.afterField()
			p.state = stateExpectValue
		case c == p.opts.Quote:
			p.buffer = p.buffer[:0]
			p.state = stateQuotedString
		default:
			p.buffer = append(p.buffer, c)
		}

	default:
		p.report(ErrorInvalidState)
	}
	return false
}

// isLineEnd reports whether c terminates a record: CR, or LF not preceded
// by CR.
func (p *Parser) isLineEnd(c rune) bool {
	return c == '\r' || (c == '\n' && p.pos.prev != '\r')
}

// report hands a structural error to the error handler. A non-nil result
// aborts the parse.
func (p *Parser) report(kind ErrorKind) {
	err := p.opts.ErrorHandler.Error(kind, p.pos.line, p.pos.column)
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Parser) warn(format string, args ...interface{}) {
	if p.opts.WarningCallback == nil {
		return
	}
	p.opts.WarningCallback(p.pos.line, fmt.Sprintf(format, args...))
}
