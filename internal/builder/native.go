package builder

type nativeFrame struct {
	object   bool
	elements []interface{}
	members  map[string]interface{}
	name     string
}

// Native builds plain Go values from structural events: []interface{},
// map[string]interface{}, string, int64, float64, bool and nil.
type Native struct {
	// OnRecord, if set, receives every completed element of the root array
	// instead of it being kept in the result. This lets rows be consumed as
	// soon as they are complete.
	OnRecord func(v interface{})

	stack []*nativeFrame
	root  interface{}
}

// Result returns the completed root value, or nil before EndDocument.
func (b *Native) Result() interface{} {
	return b.root
}

// Depth returns the number of open containers.
func (b *Native) Depth() int {
	return len(b.stack)
}

func (b *Native) add(v interface{}) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := b.stack[len(b.stack)-1]
	switch {
	case top.object:
		top.members[top.name] = v
	case len(b.stack) == 1 && b.OnRecord != nil:
		b.OnRecord(v)
	default:
		top.elements = append(top.elements, v)
	}
}

func (b *Native) pop() *nativeFrame {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top
}

func (b *Native) BeginDocument() {
	b.stack = b.stack[:0]
	b.root = nil
}

func (b *Native) EndDocument() {}

func (b *Native) BeginArray() {
	b.stack = append(b.stack, &nativeFrame{elements: []interface{}{}})
}

func (b *Native) EndArray() {
	b.add(b.pop().elements)
}

func (b *Native) BeginObject() {
	b.stack = append(b.stack, &nativeFrame{object: true, members: map[string]interface{}{}})
}

func (b *Native) EndObject() {
	b.add(b.pop().members)
}

func (b *Native) Name(name string) {
	b.stack[len(b.stack)-1].name = name
}

func (b *Native) String(value string)        { b.add(value) }
func (b *Native) Int(value int64)            { b.add(value) }
func (b *Native) Float(value float64, _ int) { b.add(value) }
func (b *Native) Bool(value bool)            { b.add(value) }
func (b *Native) Null()                      { b.add(nil) }
