package tokenizer

import (
	"io"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// Tokenizer turns a character stream into field tokens.
//
// Two strategies are available. Run scans the whole stream and splits
// records on the dialect's line terminator. RunLines reads one physical line
// at a time and splits each line on its own. Both share the same
// delimiter and quote handling.
//
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	stream shapetokenizer.Stream
	rules  Rules

	// pending holds pushed-back characters; the top of the stack is read first.
	pending []rune
	look    []rune

	field  []rune
	quotes int
}

// New creates a tokenizer reading from stream.
func New(stream shapetokenizer.Stream, rules Rules) *Tokenizer {
	return &Tokenizer{
		stream: stream,
		rules:  rules,
	}
}

// NewFromReader creates a tokenizer reading characters from r. Bytes that
// are not valid UTF-8 reach the fields unchanged.
func NewFromReader(r io.Reader, rules Rules) *Tokenizer {
	return New(newStream(r), rules)
}

// NewFromString creates a tokenizer over an in-memory string.
func NewFromString(s string, rules Rules) *Tokenizer {
	return New(shapetokenizer.NewStream(string(Runes(s))), rules)
}

func newStream(r io.Reader) shapetokenizer.Stream {
	return shapetokenizer.NewStreamFromReader(newRuneReader(r))
}

// Run tokenizes the rest of the stream using the whole-stream strategy and
// passes every field to emit, in order.
func (t *Tokenizer) Run(emit func(string)) {
	t.scan(emit, t.rules.Terminator)
	t.finish(emit)
}

// RunLines tokenizes the rest of the stream one physical line at a time.
// Quote state never carries over from one line to the next.
func (t *Tokenizer) RunLines(emit func(string)) {
	for {
		line, _, ok := t.ReadLine()
		if !ok {
			return
		}
		splitLine(line, t.rules, emit)
	}
}

// ReadLine reads one physical line. line has its '\n' and a single trailing
// '\r' removed; raw is the text exactly as read, suitable for Unread.
// ok is false at end of input.
func (t *Tokenizer) ReadLine() (line, raw string, ok bool) {
	var b []rune
	for {
		r, more := t.next()
		if !more {
			break
		}
		b = append(b, r)
		if r == '\n' {
			break
		}
	}
	if len(b) == 0 {
		return "", "", false
	}

	raw = String(b)
	line = strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, raw, true
}

// Unread pushes s back onto the input so that it is read again before
// anything else.
func (t *Tokenizer) Unread(s string) {
	t.unread(Runes(s))
}

// SplitLine splits a single line into fields. The last field is only
// returned if it is non-empty.
func SplitLine(line string, rules Rules) []string {
	var fields []string
	splitLine(line, rules, func(f string) {
		fields = append(fields, f)
	})
	return fields
}

// CountDelimiters returns the number of delimiters in line outside quoted
// regions, including a trailing one.
func CountDelimiters(line string, rules Rules) int {
	n := 0
	lt := NewFromString(line, rules)
	lt.scan(func(string) { n++ }, nil)
	return n
}

func splitLine(line string, rules Rules, emit func(string)) {
	lt := NewFromString(line, rules)
	lt.scan(emit, nil)
	lt.finish(emit)
}

// CountLines returns the number of physical lines in r. A final line without
// a trailing newline is counted.
func CountLines(r io.Reader) int {
	stream := newStream(r)
	n := 0
	open := false
	for {
		c, ok := stream.NextChar()
		if !ok {
			break
		}
		if c == '\n' {
			n++
			open = false
		} else {
			open = true
		}
	}
	if open {
		n++
	}
	return n
}

// scan runs the delimiter/quote state machine until the input is exhausted.
// A nil terminator disables record splitting.
func (t *Tokenizer) scan(emit func(string), terminator []rune) {
	for {
		r, ok := t.next()
		if !ok {
			return
		}

		if t.match(r, t.rules.Delimiter) {
			if t.quoted() {
				t.appendAll(t.rules.Delimiter)
				continue
			}
			t.flush(emit)
			if t.rules.SkipInitialSpace {
				if c, ok := t.peek(); ok && c == ' ' {
					t.next()
				}
			}
			continue
		}

		if t.match(r, terminator) {
			if t.quoted() {
				t.appendAll(terminator)
				continue
			}
			if len(terminator) == 1 && terminator[0] == '\n' {
				t.dropCarriageReturn()
			}
			t.flush(emit)
			continue
		}

		t.append(r)
	}
}

// finish emits the trailing field, if any.
func (t *Tokenizer) finish(emit func(string)) {
	if len(t.field) > 0 {
		t.flush(emit)
	}
}

// match reports whether first and the characters following it spell seq.
// After a partial match the characters read past first are pushed back, so
// none of them is lost.
func (t *Tokenizer) match(first rune, seq []rune) bool {
	if len(seq) == 0 || first != seq[0] {
		return false
	}

	t.look = t.look[:0]
	for _, want := range seq[1:] {
		r, ok := t.next()
		if !ok {
			t.unread(t.look)
			return false
		}
		t.look = append(t.look, r)
		if r != want {
			t.unread(t.look)
			return false
		}
	}
	return true
}

// append adds r to the current field and updates the quote parity. With
// double-quote escaping a quote directly after another quote is a literal
// and leaves the parity unchanged.
func (t *Tokenizer) append(r rune) {
	if r == t.rules.Quote {
		n := len(t.field)
		if !(t.rules.DoubleQuote && n > 0 && t.field[n-1] == r) {
			t.quotes++
		}
	}
	t.field = append(t.field, r)
}

func (t *Tokenizer) appendAll(rs []rune) {
	for _, r := range rs {
		t.append(r)
	}
}

// quoted reports whether the current field has an open quoted region.
func (t *Tokenizer) quoted() bool {
	return t.quotes%2 == 1
}

func (t *Tokenizer) dropCarriageReturn() {
	if n := len(t.field); n > 0 && t.field[n-1] == '\r' {
		t.field = t.field[:n-1]
	}
}

func (t *Tokenizer) flush(emit func(string)) {
	emit(Trim(String(t.field), t.rules.TrimSet))
	t.field = t.field[:0]
	t.quotes = 0
}

func (t *Tokenizer) next() (rune, bool) {
	if n := len(t.pending); n > 0 {
		r := t.pending[n-1]
		t.pending = t.pending[:n-1]
		return r, true
	}
	return t.stream.NextChar()
}

func (t *Tokenizer) peek() (rune, bool) {
	if n := len(t.pending); n > 0 {
		return t.pending[n-1], true
	}
	return t.stream.PeekChar()
}

func (t *Tokenizer) unread(rs []rune) {
	for i := len(rs) - 1; i >= 0; i-- {
		t.pending = append(t.pending, rs[i])
	}
}
