package csv

import (
	"fmt"
	"reflect"
	"strings"
)

// Column describes one column: its name, declared type and default literal.
type Column struct {
	// Name is the column name.
	Name string
	// Type is the declared type. TypeString leaves fields as text.
	Type ColumnType
	// Default is a JSON literal used when a field cannot be converted, or when
	// a string field is empty. Empty means null.
	Default string
}

// Schema is an ordered list of columns. Applied to Options it sets the
// column names, types and defaults in one step.
//
// Example:
//
//	schema, err := csv.ParseSchema("id:integer,name,score:float=0.0")
//	if err != nil {
//	    // handle error
//	}
//	opts := schema.Apply(csv.DefaultOptions())
//	opts.Mapping = csv.MappingObjectRows
type Schema struct {
	Columns []Column
}

// NewSchema creates a new empty schema.
func NewSchema() *Schema {
	return &Schema{Columns: make([]Column, 0)}
}

// AddColumn adds a column definition to the schema.
func (s *Schema) AddColumn(col Column) *Schema {
	s.Columns = append(s.Columns, col)
	return s
}

// AddSimpleColumn adds a column with just name and type.
func (s *Schema) AddSimpleColumn(name string, colType ColumnType) *Schema {
	return s.AddColumn(Column{Name: name, Type: colType})
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Apply returns opts with ColumnNames, ColumnTypes and ColumnDefaults taken
// from the schema. A header line, if any, is still skipped but its names are
// not used.
func (s *Schema) Apply(opts Options) Options {
	opts.ColumnNames = s.Names()
	opts.ColumnTypes = make([]ColumnType, len(s.Columns))
	opts.ColumnDefaults = make([]string, len(s.Columns))
	for i, col := range s.Columns {
		opts.ColumnTypes[i] = col.Type
		opts.ColumnDefaults[i] = col.Default
	}
	return opts
}

// String renders the schema in the form accepted by ParseSchema.
func (s *Schema) String() string {
	parts := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		part := col.Name + ":" + col.Type.String()
		if col.Default != "" {
			part += "=" + col.Default
		}
		parts[i] = part
	}
	return strings.Join(parts, ",")
}

// ParseSchema parses a comma-separated list of name[:type][=default] columns.
// The type defaults to string; the default is a JSON literal.
//
// Example:
//
//	schema, err := csv.ParseSchema("id:integer=0,name,active:boolean=false")
func ParseSchema(text string) (*Schema, error) {
	schema := NewSchema()
	if strings.TrimSpace(text) == "" {
		return schema, nil
	}
	for i, part := range strings.Split(text, ",") {
		col, err := parseColumn(part)
		if err != nil {
			return nil, &OptionsError{Field: "Schema", Message: fmt.Sprintf("column %d: %v", i+1, err)}
		}
		schema.AddColumn(col)
	}
	return schema, nil
}

func parseColumn(part string) (Column, error) {
	var col Column
	if eq := strings.IndexByte(part, '='); eq >= 0 {
		col.Default = strings.TrimSpace(part[eq+1:])
		part = part[:eq]
	}
	name, typ, hasType := strings.Cut(part, ":")
	col.Name = strings.TrimSpace(name)
	if col.Name == "" {
		return col, fmt.Errorf("missing column name")
	}
	if hasType {
		t, err := ParseColumnType(typ)
		if err != nil {
			return col, err
		}
		col.Type = t
	}
	return col, nil
}

// SchemaFromStruct creates a schema from a struct type using csv tags.
//
// The tag holds the column name followed by options; default=<literal> sets
// the column default. Fields tagged "-" are skipped.
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age,default=0"`
//	}
func SchemaFromStruct(v interface{}) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("SchemaFromStruct requires a struct type, got nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("SchemaFromStruct requires a struct type, got %s", t.Kind())
	}

	schema := NewSchema()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := field.Tag.Get("csv")
		if tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		col := Column{Name: field.Name, Type: goTypeToColumnType(field.Type)}
		if parts[0] != "" {
			col.Name = parts[0]
		}
		for _, opt := range parts[1:] {
			if def, ok := strings.CutPrefix(opt, "default="); ok {
				col.Default = def
			}
		}
		schema.AddColumn(col)
	}
	return schema, nil
}

// goTypeToColumnType maps Go types to column types.
func goTypeToColumnType(t reflect.Type) ColumnType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return TypeBoolean
	default:
		return TypeString
	}
}
