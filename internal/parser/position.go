package parser

// position tracks the 0-based character offset and the 1-based line and
// column of the character being consumed. A CR LF pair advances the line once.
type position struct {
	offset int
	line   int
	column int
	prev   rune
}

func newPosition() position {
	return position{line: 1, column: 1}
}

// advance moves past c.
func (p *position) advance(c rune) {
	p.offset++
	switch c {
	case '\r':
		p.line++
		p.column = 1
	case '\n':
		if p.prev != '\r' {
			p.line++
		}
		p.column = 1
	default:
		p.column++
	}
	p.prev = c
}
