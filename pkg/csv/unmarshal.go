package csv

import (
	"io"

	"github.com/jszwec/csvutil"
)

// Unmarshal decodes the records of the last parse into v, which must be a
// pointer to a struct, a struct slice or a struct array.
//
// Columns are matched to fields by the csv struct tag, or by the field name
// when there is no tag. Ignored columns are not available:
//
//	type Entry struct {
//	    Level   string `csv:"Level"`
//	    Message string `csv:"Message"`
//	}
//	var entries []Entry
//	err := r.Unmarshal(&entries)
//
// Decoding a single struct reads the first record only. Field conversion
// follows github.com/jszwec/csvutil.
func (r *Reader) Unmarshal(v interface{}) error {
	cols := r.columns()
	if len(cols) == 0 {
		return nil
	}

	dec, err := csvutil.NewDecoder(&recordSource{cols: cols, rows: r.rows}, cols...)
	if err != nil {
		return err
	}
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// recordSource feeds records to csvutil as rows of strings in column order.
type recordSource struct {
	cols []string
	rows []Record
	next int
}

func (s *recordSource) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	rec := s.rows[s.next]
	s.next++

	out := make([]string, len(s.cols))
	for i, name := range s.cols {
		out[i] = rec[name]
	}
	return out, nil
}
