// Package tokenizer splits delimited text into field tokens using dialect
// rules, reading characters from Shape's tokenizer streams.
package tokenizer

import "strings"

// Rules is the subset of a dialect the tokenizer needs.
//
// Delimiter and Terminator may be several characters long. An empty
// Delimiter never matches, so the whole line becomes one field. Terminator
// is only consulted by the whole-stream strategy (Run).
type Rules struct {
	Delimiter        []rune
	Terminator       []rune
	Quote            rune
	DoubleQuote      bool
	SkipInitialSpace bool
	// TrimSet holds the characters stripped from both ends of every field.
	TrimSet string
}

// DefaultRules returns comma-separated, CRLF-terminated rules with
// double-quote escaping.
func DefaultRules() Rules {
	return Rules{
		Delimiter:   []rune(","),
		Terminator:  []rune("\r\n"),
		Quote:       '"',
		DoubleQuote: true,
	}
}

// Trim strips every character of cutset from both ends of s.
// An empty cutset returns s unchanged.
func Trim(s, cutset string) string {
	if cutset == "" {
		return s
	}
	return strings.Trim(s, cutset)
}
