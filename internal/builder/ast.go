// Package builder provides event handlers that assemble the transducer output
// into in-memory trees: shape-core AST nodes or plain Go values.
package builder

import (
	"github.com/shapestone/shape-core/pkg/ast"
)

// Locator reports the input position of the event being handled. The CSV
// parser satisfies it.
type Locator interface {
	Offset() int
	Line() int
	Column() int
}

type astFrame struct {
	object   bool
	elements []ast.SchemaNode
	props    map[string]ast.SchemaNode
	name     string
	pos      ast.Position
}

// AST builds a shape-core AST from structural events.
//
// Arrays become *ast.ArrayDataNode, objects *ast.ObjectNode and scalars
// *ast.LiteralNode holding a string, int64, float64, bool or nil.
type AST struct {
	loc   Locator
	stack []*astFrame
	root  ast.SchemaNode
}

// NewAST creates an AST builder. When loc is non-nil, nodes carry the input
// position at which they were emitted.
func NewAST(loc Locator) *AST {
	return &AST{loc: loc}
}

// SetLocator sets the position source. It is used when the builder must
// exist before the parser that feeds it.
func (b *AST) SetLocator(loc Locator) {
	b.loc = loc
}

// Result returns the completed root node, or nil before EndDocument.
func (b *AST) Result() ast.SchemaNode {
	return b.root
}

func (b *AST) position() ast.Position {
	if b.loc == nil {
		return ast.ZeroPosition()
	}
	return ast.NewPosition(b.loc.Offset(), b.loc.Line(), b.loc.Column())
}

func (b *AST) add(node ast.SchemaNode) {
	if len(b.stack) == 0 {
		b.root = node
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.object {
		top.props[top.name] = node
		return
	}
	top.elements = append(top.elements, node)
}

func (b *AST) pop() *astFrame {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top
}

func (b *AST) BeginDocument() {
	b.stack = b.stack[:0]
	b.root = nil
}

func (b *AST) EndDocument() {}

func (b *AST) BeginArray() {
	b.stack = append(b.stack, &astFrame{elements: []ast.SchemaNode{}, pos: b.position()})
}

func (b *AST) EndArray() {
	f := b.pop()
	b.add(ast.NewArrayDataNode(f.elements, f.pos))
}

func (b *AST) BeginObject() {
	b.stack = append(b.stack, &astFrame{object: true, props: map[string]ast.SchemaNode{}, pos: b.position()})
}

func (b *AST) EndObject() {
	f := b.pop()
	b.add(ast.NewObjectNode(f.props, f.pos))
}

func (b *AST) Name(name string) {
	b.stack[len(b.stack)-1].name = name
}

func (b *AST) String(value string)        { b.add(ast.NewLiteralNode(value, b.position())) }
func (b *AST) Int(value int64)            { b.add(ast.NewLiteralNode(value, b.position())) }
func (b *AST) Float(value float64, _ int) { b.add(ast.NewLiteralNode(value, b.position())) }
func (b *AST) Bool(value bool)            { b.add(ast.NewLiteralNode(value, b.position())) }
func (b *AST) Null()                      { b.add(ast.NewLiteralNode(nil, b.position())) }
