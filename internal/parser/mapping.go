package parser

// emitField shapes one data field according to the mapping.
func (p *Parser) emitField(text string, unquoted bool) {
	col := p.columnIndex
	nullOverride := unquoted && text == "" && p.opts.UnquotedEmptyValueIsNull

	switch p.opts.Mapping {
	case MappingRowArrays:
		if nullOverride {
			p.handler.Null()
			return
		}
		p.coerce(text, col)

	case MappingObjectRows:
		if p.opts.IgnoreEmptyValues && text == "" {
			return
		}
		if col >= len(p.columnNames) {
			return
		}
		p.handler.Name(p.columnNames[col])
		if nullOverride {
			p.handler.Null()
			return
		}
		p.coerce(text, col)

	case MappingColumnMajor:
		if col < len(p.columnValues) {
			p.columnValues[col] = append(p.columnValues[col], text)
		}
	}
}

// emitColumns emits the buffered column-major object, coercing each value
// now that the whole input was read.
func (p *Parser) emitColumns() {
	p.handler.BeginObject()
	for col, name := range p.columnNames {
		p.handler.Name(name)
		p.handler.BeginArray()
		if col < len(p.columnValues) {
			for _, text := range p.columnValues[col] {
				p.coerce(text, col)
			}
		}
		p.handler.EndArray()
	}
	p.handler.EndObject()
	p.columnValues = nil
}
