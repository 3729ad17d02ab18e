package csv_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func TestSnifferDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		expected string
	}{
		{
			name:     "comma delimited",
			sample:   "a,b,c\n1,2,3\n4,5,6",
			expected: ",",
		},
		{
			name:     "tab delimited",
			sample:   "a\tb\tc\n1\t2\t3\n4\t5\t6",
			expected: "\t",
		},
		{
			name:     "semicolon delimited",
			sample:   "a;b;c\n1;2;3\n4;5;6",
			expected: ";",
		},
		{
			name:     "pipe delimited",
			sample:   "a|b|c\n1|2|3\n4|5|6",
			expected: "|",
		},
		{
			name:     "double colon delimited",
			sample:   "Level::Message\nINFO::started\nWARN::slow",
			expected: "::",
		},
		{
			name:     "quoted commas do not count",
			sample:   "a;b\n\"x,y,z\";2\n\"p,q,r\";3",
			expected: ";",
		},
		{
			name:     "trailing delimiter counts",
			sample:   "a,;b;\n1,;2;3\n4,;5;6",
			expected: ";",
		},
		{
			name:     "empty sample defaults to comma",
			sample:   "",
			expected: ",",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := csv.NewSniffer(tt.sample).DetectDelimiter()
			if got != tt.expected {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSnifferHasHeader(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   bool
	}{
		{"identifier header", "name,age,email\nAlice,30,alice@example.com\n", true},
		{"title case header", "First Name,Last Name\nAda,Lovelace\n", true},
		{"numeric first line", "1,2,3\n4,5,6\n", false},
		{"dates first line", "2024-01-01,5\n2024-01-02,6\n", false},
		{"single line", "name,age\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csv.NewSniffer(tt.sample).HasHeader(); got != tt.want {
				t.Errorf("HasHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnifferTerminatorAndSpace(t *testing.T) {
	s := csv.NewSniffer("name, age\r\nAlice, 30\r\n")

	if got := s.DetectTerminator(); got != "\r\n" {
		t.Errorf("DetectTerminator() = %q, want CRLF", got)
	}
	if !s.SkipsInitialSpace() {
		t.Error("SkipsInitialSpace() = false, want true")
	}

	if got := csv.NewSniffer("a,b\n1,2\n").DetectTerminator(); got != "\n" {
		t.Errorf("DetectTerminator() = %q, want LF", got)
	}
}

func TestSnifferConfigure(t *testing.T) {
	input := "name::age\r\nann::31\r\nbob::25\r\n"

	r := csv.NewReader()
	csv.NewSniffer(input).Configure(r.ConfigureDialect("sniffed"))
	if err := r.Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if r.Len() != 2 || r.Rows()[1]["age"] != "25" {
		t.Errorf("Rows() = %v", r.Rows())
	}
}

func TestSniffFile(t *testing.T) {
	s, err := csv.SniffFile(writeFile(t, "id|name\n1|x\n2|y\n"))
	if err != nil {
		t.Fatalf("SniffFile() error = %v", err)
	}

	d := s.Dialect().Settings()
	if d.Delimiter != "|" || d.LineTerminator != "\n" || !d.Header {
		t.Errorf("Dialect() settings = %+v", d)
	}

	_, err = csv.SniffFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("SniffFile() of a missing file error = %v", err)
	}
}
