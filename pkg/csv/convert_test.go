package csv

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shapestone/shape-core/pkg/ast"
)

// TestNodeToInterface tests converting parsed ASTs to native values
func TestNodeToInterface(t *testing.T) {
	objects := DefaultOptions()
	objects.AssumeHeader = true
	objects.Mapping = MappingObjectRows
	objects.ColumnTypes = []ColumnType{TypeString, TypeInteger}

	columns := objects
	columns.Mapping = MappingColumnMajor

	tests := []struct {
		name  string
		input string
		opts  Options
		want  interface{}
	}{
		{
			name:  "rows",
			input: "name,age\nAlice,30\n",
			opts:  DefaultOptions(),
			want:  []interface{}{[]interface{}{"name", "age"}, []interface{}{"Alice", "30"}},
		},
		{
			name:  "empty",
			input: "",
			opts:  DefaultOptions(),
			want:  []interface{}{},
		},
		{
			name:  "typed objects",
			input: "name,age\nAlice,30\nBob,x\n",
			opts:  objects,
			want: []interface{}{
				map[string]interface{}{"name": "Alice", "age": int64(30)},
				map[string]interface{}{"name": "Bob", "age": nil},
			},
		},
		{
			name:  "columns",
			input: "name,age\nAlice,30\n",
			opts:  columns,
			want: map[string]interface{}{
				"name": []interface{}{"Alice"},
				"age":  []interface{}{int64(30)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input, tt.opts)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, NodeToInterface(node)); diff != "" {
				t.Errorf("NodeToInterface() mismatch (-want +got):\n%s", diff)
			}

			decoded, err := Decode(tt.input, tt.opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(decoded, NodeToInterface(node)); diff != "" {
				t.Errorf("NodeToInterface() differs from Decode() (-decode +ast):\n%s", diff)
			}
		})
	}
}

func TestNodeToInterface_Unknown(t *testing.T) {
	if got := NodeToInterface(nil); got != nil {
		t.Errorf("NodeToInterface(nil) = %v, want nil", got)
	}
}

// TestInterfaceToNode tests converting native values to AST nodes
func TestInterfaceToNode(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"string", "x", "x"},
		{"bool", true, true},
		{"int widened", 7, int64(7)},
		{"int32 widened", int32(-2), int64(-2)},
		{"float32 widened", float32(0.5), 0.5},
		{"records", [][]string{{"a", "b"}, {"c"}}, []interface{}{[]interface{}{"a", "b"}, []interface{}{"c"}}},
		{"record", []string{"a"}, []interface{}{"a"}},
		{"nested", []interface{}{map[string]interface{}{"k": int64(1)}}, []interface{}{map[string]interface{}{"k": int64(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := InterfaceToNode(tt.in)
			if err != nil {
				t.Fatalf("InterfaceToNode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, NodeToInterface(node)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterfaceToNode_Unsupported(t *testing.T) {
	tests := []interface{}{
		struct{}{},
		[]interface{}{"ok", make(chan int)},
		map[string]interface{}{"bad": uint8(1)},
	}
	for _, in := range tests {
		if _, err := InterfaceToNode(in); err == nil {
			t.Errorf("InterfaceToNode(%T) succeeded, want error", in)
		}
	}
}

// TestNodeToRecords tests flattening ASTs to string records
func TestNodeToRecords(t *testing.T) {
	opts := DefaultOptions()
	opts.ColumnTypes = []ColumnType{TypeInteger, TypeFloat, TypeBoolean}
	opts.UnquotedEmptyValueIsNull = true

	node, err := Parse("1,2.5,true,\n-3,x,0,z\n", opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := [][]string{{"1", "2.5", "true", ""}, {"-3", "", "false", "z"}}
	if diff := cmp.Diff(want, NodeToRecords(node)); diff != "" {
		t.Errorf("NodeToRecords() mismatch (-want +got):\n%s", diff)
	}

	objects := DefaultOptions()
	objects.AssumeHeader = true
	objects.Mapping = MappingObjectRows
	node, err = Parse("b,a\n2,1\n", objects)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([][]string{{"1", "2"}}, NodeToRecords(node)); diff != "" {
		t.Errorf("NodeToRecords() objects mismatch (-want +got):\n%s", diff)
	}

	if got := NodeToRecords(ast.NewLiteralNode("x", ast.Position{})); len(got) != 0 {
		t.Errorf("NodeToRecords(literal) = %v, want empty", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{int64(-4), "-4"},
		{1.25, "1.25"},
		{math.Inf(1), "+Inf"},
		{false, "false"},
		{uint8(3), "3"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
