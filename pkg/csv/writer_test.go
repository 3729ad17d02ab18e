package csv_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func TestWriterWriteRow(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*csv.Dialect)
		rows      [][]string
		want      string
	}{
		{
			name: "default dialect",
			rows: [][]string{{"1", "2"}, {"3", "4"}},
			want: "1,2\r\n3,4\r\n",
		},
		{
			name:      "header written once",
			configure: func(d *csv.Dialect) { d.ColumnNames("a", "b") },
			rows:      [][]string{{"1", "2"}, {"3", "4"}},
			want:      "a,b\r\n1,2\r\n3,4\r\n",
		},
		{
			name:      "multi-character delimiter",
			configure: func(d *csv.Dialect) { d.Delimiter("::").LineTerminator("\n") },
			rows:      [][]string{{"INFO", "started"}},
			want:      "INFO::started\n",
		},
		{
			name:      "no rows writes no header",
			configure: func(d *csv.Dialect) { d.ColumnNames("a") },
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := csv.NewWriterTo(&buf)
			d := w.ConfigureDialect("out").LineTerminator("\r\n")
			if tt.configure != nil {
				tt.configure(d)
			}

			for _, row := range tt.rows {
				if err := w.WriteRow(row...); err != nil {
					t.Fatalf("WriteRow() error = %v", err)
				}
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := csv.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.UseDialect(csv.DialectUnix); err != nil {
		t.Fatalf("UseDialect() error = %v", err)
	}
	w.WriteRow("name", "age")
	w.WriteRow("ann", "31")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := w.WriteRow("late"); !errors.Is(err, csv.ErrWriterClosed) {
		t.Errorf("WriteRow() after Close error = %v, want %v", err, csv.ErrWriterClosed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := string(data), "name,age\nann,31\n"; got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}

	// What was written reads back with the same dialect.
	r := csv.NewReader()
	r.UseDialect(csv.DialectUnix)
	if err := r.Read(path); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if r.Len() != 1 || r.Rows()[0]["age"] != "31" {
		t.Errorf("Rows() = %v", r.Rows())
	}
}

func TestNewWriterBadPath(t *testing.T) {
	_, err := csv.NewWriter(filepath.Join(t.TempDir(), "missing", "out.csv"))

	var srcErr *csv.SourceError
	if !errors.As(err, &srcErr) || srcErr.Op != "create" {
		t.Errorf("NewWriter() error = %v, want a create SourceError", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterFlushError(t *testing.T) {
	w := csv.NewWriterTo(failingWriter{})
	w.WriteRow("a")

	err := w.Close()
	var srcErr *csv.SourceError
	if !errors.As(err, &srcErr) || srcErr.Op != "write" {
		t.Errorf("Close() error = %v, want a write SourceError", err)
	}
}

type person struct {
	Name string `csv:"name"`
	Age  int    `csv:"age"`
}

func TestWriterEncode(t *testing.T) {
	t.Run("header from tags", func(t *testing.T) {
		var buf bytes.Buffer
		w := csv.NewWriterTo(&buf)
		w.ConfigureDialect("out").LineTerminator("\n")

		people := []person{{"ann", 31}, {"bob", 25}}
		if err := w.Encode(people); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if err := w.Encode(person{"cy", 40}); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		want := "name,age\nann,31\nbob,25\ncy,40\n"
		if got := buf.String(); got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("dialect column names", func(t *testing.T) {
		var buf bytes.Buffer
		w := csv.NewWriterTo(&buf)
		w.ConfigureDialect("out").LineTerminator("\n").Delimiter(";").ColumnNames("Name", "Age")

		if err := w.Encode([]person{{"ann", 31}}); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		if got, want := buf.String(), "Name;Age\nann;31\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})
}

func TestWriterWriteNode(t *testing.T) {
	r := csv.NewReader()
	r.ConfigureDialect("in").Delimiter("::").LineTerminator("\r\n")
	if err := r.Read(writeFile(t, "a::b\r\n1::2\r\n3::4\r\n")); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriterTo(&buf)
	w.ConfigureDialect("out").LineTerminator("\n").ColumnNames("ignored")
	if err := w.WriteNode(r.ToAST()); err != nil {
		t.Fatalf("WriteNode() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got, want := buf.String(), "a,b\n1,2\n3,4\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
