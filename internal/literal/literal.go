// Package literal parses short self-contained JSON literals such as `0`,
// `false`, `"n/a"` or `[1,2]` and emits them as structural events.
//
// It is used to expand per-column default values when a CSV field fails type
// coercion.
package literal

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/shapestone/shape-csvjson/internal/event"
)

// ErrEmpty is returned for a literal made only of whitespace.
var ErrEmpty = errors.New("empty literal")

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse parses text as exactly one JSON value and emits it into h.
//
// Nothing is emitted when the text is not a single valid value: the events are
// staged in a recorder and only replayed once the whole literal parsed.
func Parse(text string, h event.Handler) error {
	var rec event.Recorder
	if err := Record(text, &rec); err != nil {
		return err
	}
	rec.Replay(h)
	return nil
}

// Record parses text into rec. On error rec may hold a partial sequence.
func Record(text string, rec *event.Recorder) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}

	iter := jsoniter.ParseString(api, text)
	w := walker{h: rec}
	w.walk(iter)
	if w.err != nil {
		return fmt.Errorf("literal %q: %w", text, w.err)
	}
	if err := iterError(iter); err != nil {
		return fmt.Errorf("literal %q: %w", text, err)
	}

	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue {
		return fmt.Errorf("literal %q: unexpected trailing content", text)
	}
	if err := iterError(iter); err != nil {
		return fmt.Errorf("literal %q: %w", text, err)
	}
	return nil
}

// iterError filters the io.EOF the iterator records when it reaches the end
// of an in-memory buffer.
func iterError(iter *jsoniter.Iterator) error {
	if iter.Error == nil || iter.Error == io.EOF {
		return nil
	}
	return iter.Error
}

type walker struct {
	h   event.Handler
	err error
}

func (w *walker) walk(iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		w.h.String(iter.ReadString())
	case jsoniter.NumberValue:
		w.number(string(iter.ReadNumber()))
	case jsoniter.BoolValue:
		w.h.Bool(iter.ReadBool())
	case jsoniter.NilValue:
		iter.ReadNil()
		w.h.Null()
	case jsoniter.ArrayValue:
		w.h.BeginArray()
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			w.walk(it)
			return w.ok(it)
		})
		w.h.EndArray()
	case jsoniter.ObjectValue:
		w.h.BeginObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			w.h.Name(key)
			w.walk(it)
			return w.ok(it)
		})
		w.h.EndObject()
	default:
		if w.err == nil {
			w.err = errors.New("expected a JSON value")
		}
	}
}

func (w *walker) ok(iter *jsoniter.Iterator) bool {
	return w.err == nil && iterError(iter) == nil
}

func (w *walker) number(text string) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		w.h.Int(i)
		return
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if w.err == nil {
			w.err = fmt.Errorf("invalid number %q", text)
		}
		return
	}
	w.h.Float(f, FractionDigits(text))
}

// FractionDigits counts the digits after the decimal point of a plain decimal
// literal. Exponent forms report 0.
func FractionDigits(text string) int {
	if strings.ContainsAny(text, "eE") {
		return 0
	}
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0
	}
	return len(text) - dot - 1
}
