package encoder

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-csvjson/internal/event"
	"github.com/shapestone/shape-csvjson/internal/parser"
)

func transcode(t *testing.T, h event.Handler, input string, opts parser.Options) {
	t.Helper()
	p := parser.NewParser(h, opts)
	require.NoError(t, p.FeedString(input))
	require.NoError(t, p.End())
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  parser.Options
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "[]\n",
		},
		{
			name:  "rows",
			input: "a,b\n1,2",
			want:  `[["a","b"],["1","2"]]` + "\n",
		},
		{
			name:  "typed objects keep column order",
			input: "n,f,b,s\n1,2.50,true,x\n",
			opts: parser.Options{
				AssumeHeader: true,
				Mapping:      parser.MappingObjectRows,
				ColumnTypes:  []parser.ColumnType{parser.TypeInteger, parser.TypeFloat, parser.TypeBoolean, parser.TypeString},
			},
			want: `[{"n":1,"f":2.50,"b":true,"s":"x"}]` + "\n",
		},
		{
			name:  "columns with an empty column",
			input: "a,b\n1",
			opts:  parser.Options{HeaderLines: 1, Mapping: parser.MappingColumnMajor},
			want:  `{"a":["1"],"b":[]}` + "\n",
		},
		{
			name:  "escapes and null",
			input: `"q""t<",` + "\n",
			opts:  parser.Options{UnquotedEmptyValueIsNull: true},
			want:  `[["q\"t<",null]]` + "\n",
		},
		{
			name:  "structured default",
			input: "x",
			opts: parser.Options{
				ColumnTypes:    []parser.ColumnType{parser.TypeInteger},
				ColumnDefaults: []string{`[1,{"k":null}]`},
			},
			want: `[[[1,{"k":null}]]]` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewJSON(&buf, 0)
			transcode(t, enc, tt.input, tt.opts)
			require.NoError(t, enc.Err())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestJSON_Indent(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSON(&buf, 2)
	transcode(t, enc, "k\nv\n", parser.Options{AssumeHeader: true, Mapping: parser.MappingObjectRows})

	want := "[\n  {\n    \"k\": \"v\"\n  }\n]\n"
	assert.Equal(t, want, buf.String())
}

func TestJSON_FlushesWhileStreaming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSON(&buf, 0)
	p := parser.NewParser(enc, parser.DefaultOptions())

	row := strings.Repeat("x", 40) + "," + strings.Repeat("y", 40) + "\n"
	require.NoError(t, p.FeedString(strings.Repeat(row, 200)))
	assert.NotZero(t, buf.Len(), "nothing written before end of input")

	require.NoError(t, p.End())
	require.NoError(t, enc.Err())
	assert.Equal(t, 200*len(`["`+strings.Repeat("x", 40)+`","`+strings.Repeat("y", 40)+`"],`)+2, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestJSON_WriteError(t *testing.T) {
	enc := NewJSON(failingWriter{}, 0)
	transcode(t, enc, "a", parser.DefaultOptions())
	assert.EqualError(t, enc.Err(), "disk full")
}

func TestYAML_Values(t *testing.T) {
	var buf bytes.Buffer
	enc := NewYAML(&buf, false)
	transcode(t, enc, "n,f,b,s,z\n1,7,0,10,\n", parser.Options{
		AssumeHeader:             true,
		Mapping:                  parser.MappingObjectRows,
		UnquotedEmptyValueIsNull: true,
		ColumnTypes: []parser.ColumnType{
			parser.TypeInteger, parser.TypeFloat, parser.TypeBoolean, parser.TypeString,
		},
	})
	require.NoError(t, enc.Err())

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]interface{}{{
		"n": 1,
		"f": 7.0,
		"b": false,
		"s": "10",
		"z": nil,
	}}, got)
}

func TestYAML_FlowRows(t *testing.T) {
	var buf bytes.Buffer
	enc := NewYAML(&buf, true)
	transcode(t, enc, "a,b\nc,d\n", parser.DefaultOptions())
	require.NoError(t, enc.Err())

	assert.Equal(t, "- [a, b]\n- [c, d]\n", buf.String())
}

func TestYAML_Columns(t *testing.T) {
	var buf bytes.Buffer
	enc := NewYAML(&buf, false)
	transcode(t, enc, "a\n1\n2\n", parser.Options{
		HeaderLines: 1,
		Mapping:     parser.MappingColumnMajor,
		ColumnTypes: []parser.ColumnType{parser.TypeInteger},
	})
	require.NoError(t, enc.Err())

	var got map[string][]int
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string][]int{"a": {1, 2}}, got)
}
