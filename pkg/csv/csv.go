// Package csv reads and writes delimited text described by named dialects.
//
// A dialect sets the delimiter (possibly several characters long), the line
// terminator, the quote character, doubled-quote escaping, trimming, header
// handling and columns to ignore. Readers and writers carry a registry of
// dialects and use the current one.
//
// Reading overlaps file I/O with record assembly: one goroutine tokenizes
// the source into a queue while a second one groups the tokens into records.
//
// # Batch reading
//
//	r := csv.NewReader()
//	r.ConfigureDialect("logs").Delimiter("::")
//	if err := r.Read("app.log"); err != nil {
//	    // handle error
//	}
//	for _, rec := range r.Rows() {
//	    fmt.Println(rec["Message"])
//	}
//
// # Streaming
//
// AsyncReader returns as soon as the background goroutines are started and
// hands out records while the file is still being read:
//
//	ar := csv.NewAsyncReader()
//	if err := ar.ReadAsync("big.csv"); err != nil {
//	    // handle error
//	}
//	defer ar.Close()
//	for !ar.Done() {
//	    if ar.HasNext() {
//	        rec := ar.Next()
//	        // process rec
//	    }
//	}
//
// # Malformed input
//
// Parsing never fails on bad input. An unclosed quote makes a long field,
// and a final row with too few fields is dropped.
package csv

import (
	"errors"
	"io"

	"github.com/shapestone/shape-csv-dialect/internal/pipeline"
	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// Record is one row, keyed by column name. Ignored columns are absent.
type Record map[string]string

// Filter returns the records for which keep returns true, in order. rows is
// not modified.
func Filter(rows []Record, keep func(Record) bool) []Record {
	var out []Record
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// resolveHeader reads the first line of the source and returns the column
// names. Without a header line the names are "0".."n-1" and the line is put
// back so that it is parsed as data.
func resolveHeader(tok *tokenizer.Tokenizer, s DialectSettings) []string {
	line, raw, ok := tok.ReadLine()
	if !ok {
		return nil
	}

	fields := tokenizer.SplitLine(line, s.rules())
	if s.Header {
		return fields
	}

	tok.Unread(raw)
	return pipeline.SyntheticHeader(len(fields))
}

// sourceReader remembers the first read error other than io.EOF. The
// tokenizer's character stream treats any error as end of input.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

// Err returns the first read error.
func (s *sourceReader) Err() error {
	return s.err
}
