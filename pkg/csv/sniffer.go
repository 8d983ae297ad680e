package csv

import (
	"regexp"
	"strings"
	"unicode"
)

// candidateDelimiters are tried in order; ties go to the earlier one.
var candidateDelimiters = []rune{',', '\t', ';', '|'}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),       // identifier or snake_case
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),      // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Sniffer guesses the dialect of a CSV sample: its field delimiter and
// whether the first line is a header.
//
// Example:
//
//	sample := "name;age\nAlice;30\n"
//	opts := csv.NewSniffer(sample).Apply(csv.DefaultOptions())
//	// opts.Delimiter == ';', opts.AssumeHeader == true
type Sniffer struct {
	sample    string
	quote     rune
	delimiter rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a Sniffer for a sample of CSV data using '"' as the
// quote character. For best results, provide at least 2-3 lines.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample, quote: '"'}
}

// WithQuote sets the quote character; delimiters inside quotes are not
// counted.
func (s *Sniffer) WithQuote(quote rune) *Sniffer {
	if quote != 0 {
		s.quote = quote
	}
	s.analyzed = false
	return s
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	lines := sampleLines(s.sample)
	s.delimiter = s.detectDelimiter(lines)
	s.hasHeader = s.detectHeader(lines)
	s.analyzed = true
}

// DetectDelimiter returns the detected field delimiter.
// Candidates are comma, tab, semicolon and pipe; comma is the fallback.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.delimiter
}

// HasHeader reports whether the first line looks like a header.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Apply returns opts with the detected delimiter and header setting.
// A quote character set in opts replaces the one used for detection.
func (s *Sniffer) Apply(opts Options) Options {
	if opts.Quote != 0 && opts.Quote != s.quote {
		s.WithQuote(opts.Quote)
	}
	opts.Delimiter = s.DetectDelimiter()
	if s.HasHeader() {
		opts.AssumeHeader = true
	}
	return opts
}

// sampleLines splits the sample into its non-empty lines. A trailing partial
// line is kept since samples are usually cut at an arbitrary byte.
func sampleLines(sample string) []string {
	sample = strings.ReplaceAll(sample, "\r\n", "\n")
	sample = strings.ReplaceAll(sample, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectDelimiter scores each candidate by its count on the first line,
// multiplied by ten when every line has the same count.
func (s *Sniffer) detectDelimiter(lines []string) rune {
	best, bestScore := ',', 0
	for _, delim := range candidateDelimiters {
		if len(lines) == 0 {
			break
		}
		first := s.countDelimiter(lines[0], delim)
		if first == 0 {
			continue
		}
		score := first * 10
		for _, line := range lines[1:] {
			if s.countDelimiter(line, delim) != first {
				score = first
				break
			}
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// countDelimiter counts occurrences of delim outside quotes.
func (s *Sniffer) countDelimiter(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == s.quote:
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			count++
		}
	}
	return count
}

// detectHeader compares how header-like and data-like the fields of the first
// line are. A single line is never a header.
func (s *Sniffer) detectHeader(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	headerScore, dataScore := 0, 0
	for _, field := range s.split(lines[0], s.detectDelimiter(lines)) {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

// split cuts a line at delimiters outside quotes and removes the quotes.
func (s *Sniffer) split(line string, delim rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == s.quote:
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, current.String())
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric reports whether s is an optionally signed decimal number.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	hasDot, hasDigit := false, false
	for _, ch := range s {
		switch {
		case ch == '.' && !hasDot:
			hasDot = true
		case unicode.IsDigit(ch):
			hasDigit = true
		default:
			return false
		}
	}
	return hasDigit
}
