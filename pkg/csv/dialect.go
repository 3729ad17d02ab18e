package csv

import (
	"runtime"
	"sync"

	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// DialectSettings is a snapshot of a Dialect's configuration.
type DialectSettings struct {
	// Delimiter separates fields. It may be several characters long. An
	// empty delimiter never matches.
	Delimiter string
	// LineTerminator separates records in the whole-stream strategy.
	LineTerminator string
	// QuoteCharacter opens and closes quoted regions.
	QuoteCharacter rune
	// DoubleQuote makes a doubled quote character a literal quote.
	DoubleQuote bool
	// SkipInitialSpace drops one space directly after a delimiter.
	SkipInitialSpace bool
	// TrimCharacters are stripped from both ends of every field.
	TrimCharacters []rune
	// Header reports whether the first line names the columns.
	Header bool
	// IgnoreColumns are removed from every record.
	IgnoreColumns []string
	// ColumnNames is the header line emitted by a Writer.
	ColumnNames []string
}

// DefaultLineTerminator is "\r\n", or "\n" on Windows.
func DefaultLineTerminator() string {
	if runtime.GOOS == "windows" {
		return "\n"
	}
	return "\r\n"
}

// DefaultDialectSettings returns the settings of a freshly created dialect.
func DefaultDialectSettings() DialectSettings {
	return DialectSettings{
		Delimiter:      ",",
		LineTerminator: DefaultLineTerminator(),
		QuoteCharacter: '"',
		DoubleQuote:    true,
		Header:         true,
	}
}

func (s DialectSettings) rules() tokenizer.Rules {
	return tokenizer.Rules{
		Delimiter:        tokenizer.Runes(s.Delimiter),
		Terminator:       tokenizer.Runes(s.LineTerminator),
		Quote:            s.QuoteCharacter,
		DoubleQuote:      s.DoubleQuote,
		SkipInitialSpace: s.SkipInitialSpace,
		TrimSet:          string(s.TrimCharacters),
	}
}

// Dialect describes how text is sliced into fields and records.
//
// Every setter returns the dialect so calls can be chained:
//
//	r.ConfigureDialect("logs").
//	    Delimiter("::").
//	    TrimCharacters(' ', '\t').
//	    IgnoreColumns("thread")
//
// No setter validates its argument. A parse works on a snapshot taken when
// it starts, so changes made while it runs only affect later parses.
type Dialect struct {
	mu sync.RWMutex
	s  DialectSettings
}

// NewDialect creates a dialect with DefaultDialectSettings.
func NewDialect() *Dialect {
	return &Dialect{s: DefaultDialectSettings()}
}

// Delimiter sets the field delimiter.
func (d *Dialect) Delimiter(delimiter string) *Dialect {
	return d.set(func(s *DialectSettings) { s.Delimiter = delimiter })
}

// LineTerminator sets the record terminator.
func (d *Dialect) LineTerminator(terminator string) *Dialect {
	return d.set(func(s *DialectSettings) { s.LineTerminator = terminator })
}

// QuoteCharacter sets the quote character.
func (d *Dialect) QuoteCharacter(quote rune) *Dialect {
	return d.set(func(s *DialectSettings) { s.QuoteCharacter = quote })
}

// DoubleQuote enables or disables doubled-quote escaping.
func (d *Dialect) DoubleQuote(enabled bool) *Dialect {
	return d.set(func(s *DialectSettings) { s.DoubleQuote = enabled })
}

// SkipInitialSpace enables or disables dropping a space after delimiters.
func (d *Dialect) SkipInitialSpace(enabled bool) *Dialect {
	return d.set(func(s *DialectSettings) { s.SkipInitialSpace = enabled })
}

// TrimCharacters adds characters to the trim set.
func (d *Dialect) TrimCharacters(chars ...rune) *Dialect {
	return d.set(func(s *DialectSettings) { s.TrimCharacters = append(s.TrimCharacters, chars...) })
}

// IgnoreColumns adds column names to drop from every record.
func (d *Dialect) IgnoreColumns(columns ...string) *Dialect {
	return d.set(func(s *DialectSettings) { s.IgnoreColumns = append(s.IgnoreColumns, columns...) })
}

// Header sets whether the first line holds the column names.
func (d *Dialect) Header(header bool) *Dialect {
	return d.set(func(s *DialectSettings) { s.Header = header })
}

// ColumnNames adds names to the header a Writer emits.
func (d *Dialect) ColumnNames(names ...string) *Dialect {
	return d.set(func(s *DialectSettings) { s.ColumnNames = append(s.ColumnNames, names...) })
}

// Settings returns a copy of the current configuration.
func (d *Dialect) Settings() DialectSettings {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := d.s
	s.TrimCharacters = append([]rune(nil), d.s.TrimCharacters...)
	s.IgnoreColumns = append([]string(nil), d.s.IgnoreColumns...)
	s.ColumnNames = append([]string(nil), d.s.ColumnNames...)
	return s
}

func (d *Dialect) set(fn func(*DialectSettings)) *Dialect {
	d.mu.Lock()
	fn(&d.s)
	d.mu.Unlock()
	return d
}
