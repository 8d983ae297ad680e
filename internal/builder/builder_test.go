package builder

import (
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvjson/internal/event"
	"github.com/shapestone/shape-csvjson/internal/parser"
)

func parseInto(t *testing.T, h event.Handler, input string, opts parser.Options) *parser.Parser {
	t.Helper()
	p := parser.NewParser(h, opts)
	require.NoError(t, p.FeedString(input))
	require.NoError(t, p.End())
	return p
}

func TestAST_Rows(t *testing.T) {
	b := NewAST(nil)
	parseInto(t, b, "a,1\nb,2\n", parser.Options{ColumnTypes: []parser.ColumnType{parser.TypeString, parser.TypeInteger}})

	root, ok := b.Result().(*ast.ArrayDataNode)
	require.True(t, ok, "root is %T", b.Result())
	require.Equal(t, 2, root.Len())

	row, ok := root.Elements()[1].(*ast.ArrayDataNode)
	require.True(t, ok)
	require.Equal(t, 2, row.Len())
	assert.Equal(t, "b", row.Elements()[0].(*ast.LiteralNode).Value())
	assert.Equal(t, int64(2), row.Elements()[1].(*ast.LiteralNode).Value())
}

func TestAST_Objects(t *testing.T) {
	b := NewAST(nil)
	parseInto(t, b, "name,ok\nx,true\n", parser.Options{
		AssumeHeader: true,
		Mapping:      parser.MappingObjectRows,
		ColumnTypes:  []parser.ColumnType{parser.TypeString, parser.TypeBoolean},
	})

	root := b.Result().(*ast.ArrayDataNode)
	require.Equal(t, 1, root.Len())
	obj, ok := root.Elements()[0].(*ast.ObjectNode)
	require.True(t, ok, "record is %T", root.Elements()[0])

	name, found := obj.GetProperty("name")
	require.True(t, found)
	assert.Equal(t, "x", name.(*ast.LiteralNode).Value())

	flag, found := obj.GetProperty("ok")
	require.True(t, found)
	assert.Equal(t, true, flag.(*ast.LiteralNode).Value())
}

func TestAST_ColumnsAndNull(t *testing.T) {
	b := NewAST(nil)
	parseInto(t, b, "n\n1\nx\n", parser.Options{
		HeaderLines: 1,
		Mapping:     parser.MappingColumnMajor,
		ColumnTypes: []parser.ColumnType{parser.TypeFloat},
	})

	obj, ok := b.Result().(*ast.ObjectNode)
	require.True(t, ok, "root is %T", b.Result())
	col, found := obj.GetProperty("n")
	require.True(t, found)
	values := col.(*ast.ArrayDataNode).Elements()
	require.Len(t, values, 2)
	assert.Equal(t, 1.0, values[0].(*ast.LiteralNode).Value())
	assert.Nil(t, values[1].(*ast.LiteralNode).Value())
}

func TestAST_Positions(t *testing.T) {
	b := NewAST(nil)
	p := parser.NewParser(b, parser.DefaultOptions())
	b.SetLocator(p)
	require.NoError(t, p.FeedString("a\nbc,d"))
	require.NoError(t, p.End())

	root := b.Result().(*ast.ArrayDataNode)
	require.Equal(t, 2, root.Len())
	second := root.Elements()[1].(*ast.ArrayDataNode)
	// "bc" is finalized by the delimiter at line 2, column 3.
	assert.Equal(t, ast.NewPosition(4, 2, 3), second.Elements()[0].Position())
}

func TestAST_EmptyDocument(t *testing.T) {
	b := NewAST(nil)
	assert.Nil(t, b.Result())
	parseInto(t, b, "", parser.DefaultOptions())

	root, ok := b.Result().(*ast.ArrayDataNode)
	require.True(t, ok)
	assert.Equal(t, 0, root.Len())
}

func TestNative(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  parser.Options
		want  interface{}
	}{
		{
			name:  "rows",
			input: "a,1\n",
			opts:  parser.Options{ColumnTypes: []parser.ColumnType{parser.TypeString, parser.TypeInteger}},
			want:  []interface{}{[]interface{}{"a", int64(1)}},
		},
		{
			name:  "objects",
			input: "k,v\nx,\n",
			opts:  parser.Options{AssumeHeader: true, Mapping: parser.MappingObjectRows, UnquotedEmptyValueIsNull: true},
			want:  []interface{}{map[string]interface{}{"k": "x", "v": nil}},
		},
		{
			name:  "columns",
			input: "k,v\n1,2.5\n",
			opts: parser.Options{
				AssumeHeader: true,
				Mapping:      parser.MappingColumnMajor,
				ColumnTypes:  []parser.ColumnType{parser.TypeBoolean, parser.TypeFloat},
			},
			want: map[string]interface{}{
				"k": []interface{}{true},
				"v": []interface{}{2.5},
			},
		},
		{
			name:  "structured default",
			input: "x",
			opts: parser.Options{
				ColumnTypes:    []parser.ColumnType{parser.TypeInteger},
				ColumnDefaults: []string{`{"missing": [1]}`},
			},
			want: []interface{}{[]interface{}{map[string]interface{}{"missing": []interface{}{int64(1)}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Native{}
			parseInto(t, b, tt.input, tt.opts)
			assert.Equal(t, tt.want, b.Result())
			assert.Zero(t, b.Depth())
		})
	}
}

func TestNative_OnRecord(t *testing.T) {
	var records []interface{}
	b := &Native{OnRecord: func(v interface{}) { records = append(records, v) }}
	parseInto(t, b, "a,b\nc,d\n", parser.DefaultOptions())

	assert.Equal(t, []interface{}{
		[]interface{}{"a", "b"},
		[]interface{}{"c", "d"},
	}, records)
	assert.Equal(t, []interface{}{}, b.Result(), "records handed to OnRecord are not retained")
}
