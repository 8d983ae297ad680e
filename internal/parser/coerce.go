package parser

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-csvjson/internal/event"
	"github.com/shapestone/shape-csvjson/internal/literal"
)

// loadDefaults expands every configured column default once. A literal the
// default parser rejects is kept as its raw text so the output stays
// well-formed.
func (p *Parser) loadDefaults() []*event.Recorder {
	if len(p.opts.ColumnDefaults) == 0 {
		return nil
	}
	defaults := make([]*event.Recorder, len(p.opts.ColumnDefaults))
	for i, text := range p.opts.ColumnDefaults {
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec := &event.Recorder{}
		if err := p.opts.Defaults.ParseDefault(text, rec); err != nil {
			p.warn("column %d: default %q is not a valid literal, using it as a string: %v", i, text, err)
			rec.Reset()
			rec.String(text)
		}
		defaults[i] = rec
	}
	return defaults
}

// emitDefault replays the default of column col. It reports false when the
// column has none.
func (p *Parser) emitDefault(col int) bool {
	if col >= len(p.columnDefaults) || p.columnDefaults[col] == nil {
		return false
	}
	p.columnDefaults[col].Replay(p.handler)
	return true
}

// fallback emits the column default, or null when there is none.
func (p *Parser) fallback(text string, col int, typ ColumnType) {
	if p.emitDefault(col) {
		p.warn("column %d: %q is not a valid %s, using default", col, text, typ)
		return
	}
	p.warn("column %d: %q is not a valid %s, using null", col, text, typ)
	p.handler.Null()
}

// coerce emits text as a value of the type declared for column col.
func (p *Parser) coerce(text string, col int) {
	if col >= len(p.columnTypes) {
		p.emitString(text, col)
		return
	}

	switch typ := p.columnTypes[col]; typ {
	case TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			p.fallback(text, col, typ)
			return
		}
		p.handler.Int(n)
	case TypeFloat:
		f, precision, ok := parseDecimal(strings.TrimSpace(text))
		if !ok {
			p.fallback(text, col, typ)
			return
		}
		p.handler.Float(f, precision)
	case TypeBoolean:
		b, ok := parseBool(text)
		if !ok {
			p.fallback(text, col, typ)
			return
		}
		p.handler.Bool(b)
	default:
		p.emitString(text, col)
	}
}

// emitString emits text verbatim, or the column default when text is empty.
func (p *Parser) emitString(text string, col int) {
	if text == "" && p.emitDefault(col) {
		return
	}
	p.handler.String(text)
}

// parseDecimal accepts [+-]digits[.digits][(e|E)[+-]digits] with at least one
// mantissa digit. Hex floats, inf and nan are rejected, as is overflow.
func parseDecimal(s string) (float64, int, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return 0, 0, false
		}
	}
	if i != len(s) {
		return 0, 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false
	}
	return f, literal.FractionDigits(s), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseBool accepts 0, 1, true and false, the words in any case.
func parseBool(s string) (bool, bool) {
	switch {
	case s == "0":
		return false, true
	case s == "1":
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	case strings.EqualFold(s, "true"):
		return true, true
	}
	return false, false
}
