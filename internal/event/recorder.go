package event

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a recorded event.
type Kind uint8

const (
	KindBeginDocument Kind = iota
	KindEndDocument
	KindBeginArray
	KindEndArray
	KindBeginObject
	KindEndObject
	KindName
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindBeginDocument:
		return "BeginDocument"
	case KindEndDocument:
		return "EndDocument"
	case KindBeginArray:
		return "BeginArray"
	case KindEndArray:
		return "EndArray"
	case KindBeginObject:
		return "BeginObject"
	case KindEndObject:
		return "EndObject"
	case KindName:
		return "Name"
	case KindString:
		return "String"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Event is a single recorded structural event. Only the field matching Kind
// is meaningful.
type Event struct {
	Kind      Kind
	Text      string // Name and String
	Int       int64
	Float     float64
	Precision int
	Bool      bool
}

// String renders the event compactly, e.g. `String("a")` or `Int(3)`.
func (e Event) String() string {
	switch e.Kind {
	case KindName, KindString:
		return e.Kind.String() + "(" + strconv.Quote(e.Text) + ")"
	case KindInt:
		return "Int(" + strconv.FormatInt(e.Int, 10) + ")"
	case KindFloat:
		return "Float(" + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	case KindBool:
		return "Bool(" + strconv.FormatBool(e.Bool) + ")"
	default:
		return e.Kind.String()
	}
}

// Recorder is a Handler that stores every event it receives so the sequence
// can be inspected or replayed into another Handler later.
type Recorder struct {
	Events []Event
}

// Replay sends the recorded events to h in order.
func (r *Recorder) Replay(h Handler) {
	for _, e := range r.Events {
		switch e.Kind {
		case KindBeginDocument:
			h.BeginDocument()
		case KindEndDocument:
			h.EndDocument()
		case KindBeginArray:
			h.BeginArray()
		case KindEndArray:
			h.EndArray()
		case KindBeginObject:
			h.BeginObject()
		case KindEndObject:
			h.EndObject()
		case KindName:
			h.Name(e.Text)
		case KindString:
			h.String(e.Text)
		case KindInt:
			h.Int(e.Int)
		case KindFloat:
			h.Float(e.Float, e.Precision)
		case KindBool:
			h.Bool(e.Bool)
		case KindNull:
			h.Null()
		}
	}
}

// Reset discards all recorded events, keeping the allocated storage.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.Events)
}

// Dump renders the recorded sequence separated by spaces, useful in test
// failure messages.
func (r *Recorder) Dump() string {
	parts := make([]string, len(r.Events))
	for i, e := range r.Events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

func (r *Recorder) add(e Event) {
	r.Events = append(r.Events, e)
}

func (r *Recorder) BeginDocument() { r.add(Event{Kind: KindBeginDocument}) }
func (r *Recorder) EndDocument()   { r.add(Event{Kind: KindEndDocument}) }
func (r *Recorder) BeginArray()    { r.add(Event{Kind: KindBeginArray}) }
func (r *Recorder) EndArray()      { r.add(Event{Kind: KindEndArray}) }
func (r *Recorder) BeginObject()   { r.add(Event{Kind: KindBeginObject}) }
func (r *Recorder) EndObject()     { r.add(Event{Kind: KindEndObject}) }
func (r *Recorder) Name(name string) {
	r.add(Event{Kind: KindName, Text: name})
}
func (r *Recorder) String(value string) {
	r.add(Event{Kind: KindString, Text: value})
}
func (r *Recorder) Int(value int64) {
	r.add(Event{Kind: KindInt, Int: value})
}
func (r *Recorder) Float(value float64, precision int) {
	r.add(Event{Kind: KindFloat, Float: value, Precision: precision})
}
func (r *Recorder) Bool(value bool) {
	r.add(Event{Kind: KindBool, Bool: value})
}
func (r *Recorder) Null() { r.add(Event{Kind: KindNull}) }
