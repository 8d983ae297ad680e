package csv

import (
	"io"

	"github.com/shapestone/shape-csvjson/internal/builder"
)

// Scanner provides a streaming interface for reading CSV records one at a time.
// Input is read in chunks and pushed through the incremental parser, so only
// the records not yet returned by Record are held in memory.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	opts := csv.DefaultOptions()
//	opts.AssumeHeader = true
//	opts.Mapping = csv.MappingObjectRows
//	scanner := csv.NewScanner(file, opts)
//	for scanner.Scan() {
//	    record := scanner.Record()
//	    name, _ := record.GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
//
// Under MappingRowArrays with a header, the header row is the first record.
// Under MappingColumnMajor there is a single record, the column object, and
// it is only available once the whole input has been read.
type Scanner struct {
	reader  io.Reader
	opts    Options
	parser  *Parser
	native  *builder.Native
	buf     []byte
	pending []interface{}
	current Record
	eof     bool
	err     error
}

// NewScanner creates a new Scanner that reads CSV from the given io.Reader.
//
// Example:
//
//	scanner := csv.NewScanner(reader, csv.DefaultOptions())
func NewScanner(reader io.Reader, opts Options) *Scanner {
	return &Scanner{
		reader: reader,
		opts:   opts,
	}
}

func (s *Scanner) init() bool {
	if s.parser != nil {
		return true
	}
	s.native = &builder.Native{OnRecord: func(v interface{}) {
		s.pending = append(s.pending, v)
	}}
	p, err := NewParser(s.native, s.opts)
	if err != nil {
		s.err = err
		return false
	}
	s.parser = p
	s.buf = make([]byte, readChunk)
	return true
}

// Scan advances the scanner to the next record.
// It returns false when the scan stops, either by reaching the end of the input
// or an error. After Scan returns false, Err returns any error that occurred.
//
// Example:
//
//	for scanner.Scan() {
//	    record := scanner.Record()
//	    // process record
//	}
func (s *Scanner) Scan() bool {
	if s.err != nil || !s.init() {
		return false
	}
	for len(s.pending) == 0 {
		if s.eof {
			return false
		}
		s.fill()
		if s.err != nil {
			return false
		}
	}
	s.current = Record{value: s.pending[0], headers: s.parser.ColumnNames()}
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return true
}

// fill feeds the next chunk of input to the parser.
func (s *Scanner) fill() {
	n, err := s.reader.Read(s.buf)
	if n > 0 {
		if _, werr := s.parser.Write(s.buf[:n]); werr != nil {
			s.err = werr
			return
		}
	}
	if s.parser.Done() && err == nil {
		err = io.EOF
	}
	if err == io.EOF {
		s.eof = true
		if endErr := s.parser.End(); endErr != nil {
			s.err = endErr
			return
		}
		if s.opts.Mapping == MappingColumnMajor {
			s.pending = append(s.pending, s.native.Result())
		}
		return
	}
	if err != nil {
		s.err = err
	}
}

// Record returns the most recent record read by a call to Scan.
func (s *Scanner) Record() Record {
	return s.current
}

// Headers returns the column names: those configured in Options or read from
// the header line. It is empty until the header has been read.
func (s *Scanner) Headers() []string {
	if s.parser == nil {
		return nil
	}
	names := s.parser.ColumnNames()
	headers := make([]string, len(names))
	copy(headers, names)
	return headers
}

// Err returns the first error that was encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// Record represents a single record produced by the parser.
// It provides access to field values by index or by column name.
type Record struct {
	value   interface{}
	headers []string
}

// Value returns the record as a plain Go value: []interface{} for
// MappingRowArrays and map[string]interface{} otherwise.
func (r Record) Value() interface{} {
	return r.value
}

// Get gets the field value at the specified index, formatted as text.
// Returns ("", false) if the index is out of bounds.
// Index is 0-based; object records are indexed in column name order.
func (r Record) Get(index int) (string, bool) {
	switch v := r.value.(type) {
	case []interface{}:
		if index < 0 || index >= len(v) {
			return "", false
		}
		return formatValue(v[index]), true
	case map[string]interface{}:
		if index < 0 || index >= len(r.headers) {
			return "", false
		}
		field, ok := v[r.headers[index]]
		if !ok {
			return "", false
		}
		return formatValue(field), true
	}
	return "", false
}

// GetByName gets the field value by column name.
// Returns ("", false) if the name is not found or if no column names are known.
//
// Example:
//
//	name, ok := record.GetByName("name")
//	if !ok {
//	    // column "name" not found
//	}
func (r Record) GetByName(name string) (string, bool) {
	if m, ok := r.value.(map[string]interface{}); ok {
		field, ok := m[name]
		if !ok {
			return "", false
		}
		return formatValue(field), true
	}
	for i, header := range r.headers {
		if header == name {
			return r.Get(i)
		}
	}
	return "", false
}

// Fields returns all field values in the record, formatted as text.
// Object records list their fields in column name order; a field missing
// from the record is "".
func (r Record) Fields() []string {
	switch v := r.value.(type) {
	case []interface{}:
		fields := make([]string, len(v))
		for i, field := range v {
			fields[i] = formatValue(field)
		}
		return fields
	case map[string]interface{}:
		fields := make([]string, len(r.headers))
		for i, name := range r.headers {
			fields[i] = formatValue(v[name])
		}
		return fields
	}
	return nil
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	switch v := r.value.(type) {
	case []interface{}:
		return len(v)
	case map[string]interface{}:
		return len(v)
	}
	return 0
}
