package parser

// Field and record finalization. These run at the boundaries recognized by
// the state machine and drive the header -> data transition.

// cSpace is the set isspace accepts in the C locale.
func cSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// trim strips C whitespace from the field buffer.
func (p *Parser) trim(leading, trailing bool) {
	start, end := 0, len(p.buffer)
	if leading {
		for start < end && cSpace(p.buffer[start]) {
			start++
		}
	}
	if trailing {
		for end > start && cSpace(p.buffer[end-1]) {
			end--
		}
	}
	if start != 0 || end != len(p.buffer) {
		n := copy(p.buffer, p.buffer[start:end])
		p.buffer = p.buffer[:n]
	}
}

func (p *Parser) endUnquoted() {
	p.trim(p.opts.TrimLeading, p.opts.TrimTrailing)
	p.endField(true)
}

func (p *Parser) endQuoted() {
	p.trim(p.opts.TrimLeadingInsideQuotes, p.opts.TrimTrailingInsideQuotes)
	p.endField(false)
}

// endField routes the buffered field by mode and clears the buffer.
func (p *Parser) endField(unquoted bool) {
	text := string(p.buffer)
	switch {
	case p.modes.is(ModeHeader):
		// Configured names win over the header line.
		if p.pos.line == 1 && len(p.opts.ColumnNames) == 0 {
			p.columnNames = append(p.columnNames, text)
		}
	case p.modes.is(ModeData):
		p.emitField(text, unquoted)
	default:
		if !unquoted {
			p.report(ErrorInvalidCSVText)
		}
	}
	p.state = stateExpectValue
	p.buffer = p.buffer[:0]
}

func (p *Parser) afterField() {
	p.columnIndex++
}

// beforeRecord opens the record container ahead of its first field.
func (p *Parser) beforeRecord() {
	if p.columnIndex != 0 || !p.modes.is(ModeData) {
		return
	}
	switch p.opts.Mapping {
	case MappingRowArrays:
		p.handler.BeginArray()
	case MappingObjectRows:
		p.handler.BeginObject()
	}
}

// afterRecord completes a record: it ends the header once enough lines were
// read, or closes the container opened by beforeRecord.
func (p *Parser) afterRecord() {
	switch {
	case p.modes.is(ModeHeader):
		if p.pos.line >= p.opts.EffectiveHeaderLines() {
			p.modes.flip(ModeHeader, ModeData)
			p.columnValues = make([][]string, len(p.columnNames))
			if p.opts.Mapping == MappingRowArrays && len(p.columnNames) > 0 {
				p.handler.BeginArray()
				for col, name := range p.columnNames {
					p.emitString(name, col)
				}
				p.handler.EndArray()
			}
		}
	case p.modes.is(ModeData):
		switch p.opts.Mapping {
		case MappingRowArrays:
			p.handler.EndArray()
		case MappingObjectRows:
			p.handler.EndObject()
		}
	}
	p.columnIndex = 0
}
