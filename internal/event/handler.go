// Package event defines the structural-event contract shared by the CSV
// transducer and every sink that consumes its output.
//
// A Handler receives a well-nested sequence of calls: BeginDocument, then any
// number of values where arrays and objects are bracketed by Begin/End pairs and
// every object member is introduced by Name, then EndDocument.
package event

// Handler consumes structural build events.
//
// Handlers are invoked synchronously from the goroutine that feeds the parser
// and must not call back into it.
type Handler interface {
	BeginDocument()
	EndDocument()
	BeginArray()
	EndArray()
	BeginObject()
	EndObject()
	// Name introduces the next value as an object member.
	Name(name string)
	String(value string)
	Int(value int64)
	// Float carries a precision hint: the number of fractional digits present
	// in the source text, or 0 when unknown.
	Float(value float64, precision int)
	Bool(value bool)
	Null()
}

// Discard is a Handler that ignores every event.
var Discard Handler = discard{}

type discard struct{}

func (discard) BeginDocument()     {}
func (discard) EndDocument()       {}
func (discard) BeginArray()        {}
func (discard) EndArray()          {}
func (discard) BeginObject()       {}
func (discard) EndObject()         {}
func (discard) Name(string)        {}
func (discard) String(string)      {}
func (discard) Int(int64)          {}
func (discard) Float(float64, int) {}
func (discard) Bool(bool)          {}
func (discard) Null()              {}
