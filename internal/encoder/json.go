// Package encoder provides event handlers that serialize the transducer
// output as it is produced.
package encoder

import (
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// maxBufferSize is the buffered output size past which the stream is
// flushed to the underlying writer.
const maxBufferSize = 4096

type jsonFrame struct {
	object bool
	opened bool
	count  int
}

// JSON streams structural events as JSON text.
//
// Output is written incrementally: the encoder holds at most a few kilobytes
// regardless of the input size. Each document is followed by a newline.
// Write errors are sticky and reported by Err.
type JSON struct {
	stream *jsoniter.Stream
	frames []jsonFrame
	err    error
}

// NewJSON creates a JSON encoder writing to w. A positive indent pretty
// prints with that many spaces per level.
func NewJSON(w io.Writer, indent int) *JSON {
	api := jsoniter.Config{
		EscapeHTML:    false,
		IndentionStep: indent,
	}.Froze()
	return &JSON{stream: jsoniter.NewStream(api, w, maxBufferSize)}
}

// Err returns the first error met while writing.
func (e *JSON) Err() error {
	if e.err != nil {
		return e.err
	}
	return e.stream.Error
}

// Flush writes buffered output to the underlying writer.
func (e *JSON) Flush() error {
	if err := e.stream.Flush(); err != nil && e.err == nil {
		e.err = err
	}
	return e.Err()
}

// open writes the deferred start of the innermost container. Empty
// containers are written as [] or {} when they end.
func (e *JSON) open() {
	f := &e.frames[len(e.frames)-1]
	if f.opened {
		return
	}
	f.opened = true
	if f.object {
		e.stream.WriteObjectStart()
	} else {
		e.stream.WriteArrayStart()
	}
}

// beforeValue separates a value from its predecessor inside an array. Values
// inside objects follow their member name.
func (e *JSON) beforeValue() {
	if len(e.frames) == 0 {
		return
	}
	f := &e.frames[len(e.frames)-1]
	if f.object {
		return
	}
	e.open()
	if f.count > 0 {
		e.stream.WriteMore()
	}
	f.count++
}

func (e *JSON) end() jsonFrame {
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	if len(e.frames) == 1 && e.stream.Buffered() > maxBufferSize {
		e.Flush()
	}
	return f
}

func (e *JSON) BeginDocument() {
	e.frames = e.frames[:0]
}

func (e *JSON) EndDocument() {
	e.stream.WriteRaw("\n")
	e.Flush()
}

func (e *JSON) BeginArray() {
	e.beforeValue()
	e.frames = append(e.frames, jsonFrame{})
}

func (e *JSON) EndArray() {
	if f := e.end(); f.opened {
		e.stream.WriteArrayEnd()
	} else {
		e.stream.WriteEmptyArray()
	}
}

func (e *JSON) BeginObject() {
	e.beforeValue()
	e.frames = append(e.frames, jsonFrame{object: true})
}

func (e *JSON) EndObject() {
	if f := e.end(); f.opened {
		e.stream.WriteObjectEnd()
	} else {
		e.stream.WriteEmptyObject()
	}
}

func (e *JSON) Name(name string) {
	e.open()
	f := &e.frames[len(e.frames)-1]
	if f.count > 0 {
		e.stream.WriteMore()
	}
	f.count++
	e.stream.WriteObjectField(name)
}

func (e *JSON) String(value string) {
	e.beforeValue()
	e.stream.WriteString(value)
}

func (e *JSON) Int(value int64) {
	e.beforeValue()
	e.stream.WriteInt64(value)
}

// Float keeps the fraction digits of the source text when precision is
// known, so 2.50 is written as 2.50.
func (e *JSON) Float(value float64, precision int) {
	e.beforeValue()
	if precision > 0 {
		e.stream.WriteRaw(strconv.FormatFloat(value, 'f', precision, 64))
		return
	}
	e.stream.WriteFloat64(value)
}

func (e *JSON) Bool(value bool) {
	e.beforeValue()
	e.stream.WriteBool(value)
}

func (e *JSON) Null() {
	e.beforeValue()
	e.stream.WriteNil()
}
