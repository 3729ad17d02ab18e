package csv

import (
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// sniffLimit is how much of a file SniffFile looks at.
const sniffLimit = 64 * 1024

// sniffDelimiters are the delimiters a Sniffer tries, most specific first.
var sniffDelimiters = []string{"::", ",", "\t", ";", "|"}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),      // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),     // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Sniffer guesses a dialect from a sample of text: the delimiter, the line
// terminator, whether fields start with a space and whether the first line
// is a header.
//
// Example:
//
//	s := csv.NewSniffer("name, age\r\nAlice, 30\r\n")
//	s.Configure(r.ConfigureDialect("sniffed"))
type Sniffer struct {
	sample string

	delimiter  string
	terminator string
	skipSpace  bool
	hasHeader  bool
	analyzed   bool
}

// NewSniffer creates a Sniffer for sample. Two or more lines give the best
// results.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

// SniffFile creates a Sniffer from the beginning of the file at path.
func SniffFile(path string) (*Sniffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil {
		return nil, &SourceError{Op: "read", Path: path, Err: err}
	}
	return NewSniffer(string(data)), nil
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.terminator = s.detectTerminator()
	s.delimiter = s.detectDelimiter()
	s.skipSpace = s.detectSkipSpace()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

// DetectDelimiter returns the detected field delimiter, "," if none fits.
func (s *Sniffer) DetectDelimiter() string {
	s.analyze()
	return s.delimiter
}

// DetectTerminator returns "\r\n" if the sample uses it, otherwise "\n".
func (s *Sniffer) DetectTerminator() string {
	s.analyze()
	return s.terminator
}

// SkipsInitialSpace reports whether every field after a delimiter in the
// first line starts with a space.
func (s *Sniffer) SkipsInitialSpace() bool {
	s.analyze()
	return s.skipSpace
}

// HasHeader reports whether the first line looks like column names.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Dialect returns a new dialect with the detected settings.
func (s *Sniffer) Dialect() *Dialect {
	return s.Configure(NewDialect())
}

// Configure applies the detected settings to d and returns it.
func (s *Sniffer) Configure(d *Dialect) *Dialect {
	s.analyze()
	return d.Delimiter(s.delimiter).
		LineTerminator(s.terminator).
		SkipInitialSpace(s.skipSpace).
		Header(s.hasHeader)
}

func (s *Sniffer) lines() []string {
	var lines []string
	for _, line := range strings.Split(s.sample, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (s *Sniffer) detectTerminator() string {
	if strings.Contains(s.sample, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// detectDelimiter scores each candidate by its count in the first line,
// with a bonus when every line has the same count.
func (s *Sniffer) detectDelimiter() string {
	lines := s.lines()
	if len(lines) == 0 {
		return ","
	}

	best := ","
	bestScore := 0
	for _, delim := range sniffDelimiters {
		counts := make([]int, len(lines))
		for i, line := range lines {
			counts[i] = countDelimiter(line, delim)
		}
		if counts[0] == 0 {
			continue
		}

		score := counts[0]
		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}

		// Candidates are ordered, so ties keep the more specific one.
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}
	return best
}

// countDelimiter counts the delimiters of line outside quotes.
func countDelimiter(line, delim string) int {
	rules := tokenizer.DefaultRules()
	rules.Delimiter = tokenizer.Runes(delim)
	return tokenizer.CountDelimiters(line, rules)
}

func (s *Sniffer) fields(line string) []string {
	rules := tokenizer.DefaultRules()
	rules.Delimiter = tokenizer.Runes(s.delimiter)
	return tokenizer.SplitLine(line, rules)
}

func (s *Sniffer) detectSkipSpace() bool {
	lines := s.lines()
	if len(lines) == 0 {
		return false
	}

	fields := s.fields(lines[0])
	if len(fields) < 2 {
		return false
	}
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, " ") {
			return false
		}
	}
	return true
}

// detectHeader compares how many fields of the first line look like names
// with how many look like data.
func (s *Sniffer) detectHeader() bool {
	lines := s.lines()
	if len(lines) < 2 {
		return false
	}

	headerScore := 0
	dataScore := 0
	for _, field := range s.fields(lines[0]) {
		field = strings.Trim(strings.TrimSpace(field), `"`)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
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

func isNumeric(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "-")

	hasDot := false
	for _, ch := range s {
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if !unicode.IsDigit(ch) {
			return false
		}
	}
	return len(s) > 0
}
