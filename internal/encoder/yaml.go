package encoder

import (
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML collects structural events into a yaml.v3 node tree and encodes it
// when the document ends. Unlike JSON it holds the whole document in memory.
type YAML struct {
	w        io.Writer
	flowRows bool
	indent   int

	root  *yaml.Node
	stack []*yaml.Node
	err   error
}

// NewYAML creates a YAML encoder writing to w. With flowRows set, every
// record is written on a single line in flow style.
func NewYAML(w io.Writer, flowRows bool) *YAML {
	return &YAML{w: w, flowRows: flowRows, indent: 2}
}

// Err returns the encoding error of the last document, if any.
func (e *YAML) Err() error {
	return e.err
}

func (e *YAML) add(n *yaml.Node) {
	if len(e.stack) == 0 {
		e.root = n
		return
	}
	top := e.stack[len(e.stack)-1]
	top.Content = append(top.Content, n)
}

func (e *YAML) push(kind yaml.Kind, tag string) {
	n := &yaml.Node{Kind: kind, Tag: tag}
	// The root container is depth 0; records sit right below it.
	if e.flowRows && len(e.stack) == 1 {
		n.Style = yaml.FlowStyle
	}
	e.add(n)
	e.stack = append(e.stack, n)
}

func (e *YAML) pop() {
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *YAML) scalar(tag, value string) {
	e.add(&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (e *YAML) BeginDocument() {
	e.root = nil
	e.stack = e.stack[:0]
	e.err = nil
}

func (e *YAML) EndDocument() {
	if e.root == nil {
		return
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{e.root}}
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(e.indent)
	if err := enc.Encode(doc); err != nil {
		e.err = err
		return
	}
	e.err = enc.Close()
}

func (e *YAML) BeginArray()  { e.push(yaml.SequenceNode, "!!seq") }
func (e *YAML) EndArray()    { e.pop() }
func (e *YAML) BeginObject() { e.push(yaml.MappingNode, "!!map") }
func (e *YAML) EndObject()   { e.pop() }

func (e *YAML) Name(name string) {
	e.scalar("!!str", name)
}

func (e *YAML) String(value string) {
	e.scalar("!!str", value)
}

func (e *YAML) Int(value int64) {
	e.scalar("!!int", strconv.FormatInt(value, 10))
}

func (e *YAML) Float(value float64, precision int) {
	if precision > 0 {
		e.scalar("!!float", strconv.FormatFloat(value, 'f', precision, 64))
		return
	}
	text := strconv.FormatFloat(value, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	e.scalar("!!float", text)
}

func (e *YAML) Bool(value bool) {
	e.scalar("!!bool", strconv.FormatBool(value))
}

func (e *YAML) Null() {
	e.scalar("!!null", "null")
}
