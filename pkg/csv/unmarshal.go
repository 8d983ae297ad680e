package csv

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/shapestone/shape-csvjson/internal/encoder"
)

// csvAPI decodes the intermediate JSON using csv struct tags. Field names
// match case-insensitively.
var csvAPI = jsoniter.Config{
	TagKey:     "csv",
	EscapeHTML: false,
}.Froze()

// Unmarshal parses the CSV-encoded data and stores the result in the value
// pointed to by v.
//
// The CSV is transcoded to JSON and decoded with the csv struct tags, so any
// target encoding/json could fill from the structural output works:
//
//	var records [][]string
//	err := csv.Unmarshal(data, &records, csv.DefaultOptions())
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age,default=0"`
//	}
//	var people []Person
//	err := csv.Unmarshal(data, &people, csv.DefaultOptions())
//
// When v points to a slice of structs or maps and opts selects
// MappingRowArrays, MappingObjectRows is used instead, with the first line as
// the header unless ColumnNames or HeaderLines are set. Column types and
// defaults not given in opts are taken from the struct fields whose names
// match the header.
//
// Fields holding text that does not convert to their column type receive the
// csv default, or are left at their zero value.
func Unmarshal(data []byte, v interface{}, opts Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("csv: Unmarshal requires a non-nil pointer, got %T", v)
	}

	if elem := sliceElem(rv.Type().Elem()); elem != nil {
		if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map {
			if opts.Mapping == MappingRowArrays {
				opts.Mapping = MappingObjectRows
			}
			if opts.Mapping == MappingObjectRows && len(opts.ColumnNames) == 0 && opts.HeaderLines == 0 {
				opts.AssumeHeader = true
			}
		}
		if elem.Kind() == reflect.Struct && len(opts.ColumnTypes) == 0 {
			var err error
			if opts, err = typesFromStruct(data, elem, opts); err != nil {
				return err
			}
		}
	}

	var buf bytes.Buffer
	enc := encoder.NewJSON(&buf, 0)
	if err := Transcode(bytes.NewReader(data), enc, opts); err != nil {
		return err
	}
	if err := enc.Err(); err != nil {
		return err
	}
	return csvAPI.Unmarshal(buf.Bytes(), v)
}

func sliceElem(t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Slice {
		return nil
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	return elem
}

// typesFromStruct declares the type and default of every column whose name
// matches a field of t. Column names come from opts or the header line.
func typesFromStruct(data []byte, t reflect.Type, opts Options) (Options, error) {
	schema, err := SchemaFromStruct(reflect.New(t).Interface())
	if err != nil {
		return opts, err
	}
	names := opts.ColumnNames
	if len(names) == 0 {
		if names, err = headerNames(data, opts); err != nil {
			return opts, err
		}
	}

	types := make([]ColumnType, len(names))
	defaults := make([]string, len(names))
	for i, name := range names {
		for _, col := range schema.Columns {
			if strings.EqualFold(col.Name, name) {
				types[i] = col.Type
				if len(opts.ColumnDefaults) == 0 {
					defaults[i] = col.Default
				}
				break
			}
		}
	}
	opts.ColumnTypes = types
	if len(opts.ColumnDefaults) == 0 {
		opts.ColumnDefaults = defaults
	}
	return opts, nil
}

// headerNames reads the header of data without parsing the records.
func headerNames(data []byte, opts Options) ([]string, error) {
	opts.MaxLines = opts.HeaderLines
	if opts.MaxLines == 0 {
		opts.MaxLines = 1
	}
	opts.ColumnTypes = nil
	opts.ColumnDefaults = nil
	opts.WarningCallback = nil
	p, err := NewParser(Discard, opts)
	if err != nil {
		return nil, err
	}
	if _, err := p.Write(data); err != nil {
		return nil, err
	}
	if err := p.End(); err != nil {
		return nil, err
	}
	return p.ColumnNames(), nil
}
