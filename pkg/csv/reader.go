package csv

import (
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/internal/pipeline"
	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// Reader parses a whole source and keeps the result.
//
// Read blocks until every record has been assembled. The tokenizing and
// assembling goroutines are always joined before Read returns.
//
// A Reader must not be used from several goroutines at once, but its
// Registry may be.
type Reader struct {
	*Registry

	opts ReaderOptions

	header []string
	ignore []string
	rows   []Record
}

// NewReader creates a Reader with DefaultReaderOptions.
func NewReader() *Reader {
	return NewReaderWithOptions(DefaultReaderOptions())
}

// NewReaderWithOptions creates a Reader with custom options.
func NewReaderWithOptions(opts ReaderOptions) *Reader {
	return &Reader{
		Registry: NewRegistry(),
		opts:     opts,
	}
}

// Read parses the file at path with the current dialect.
//
// A file that cannot be opened is reported before any goroutine starts. A
// read error part way through is returned after the pipeline has drained;
// the records assembled up to that point remain available.
func (r *Reader) Read(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &SourceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return r.parse(f, path)
}

// Parse parses src with the current dialect.
func (r *Reader) Parse(src io.Reader) error {
	return r.parse(src, "")
}

func (r *Reader) parse(src io.Reader, path string) error {
	name := r.CurrentDialectName()
	d, err := r.GetDialect(name)
	if err != nil {
		return err
	}
	settings := d.Settings()

	metrics, err := r.opts.metrics()
	if err != nil {
		return err
	}

	in := &sourceReader{r: src}
	tok := tokenizer.NewFromReader(in, settings.rules())
	header := resolveHeader(tok, settings)

	klog.V(2).InfoS("Parsing delimited text", "path", path, "dialect", name,
		"strategy", r.opts.Strategy, "columns", len(header))

	var rows []Record
	asm := pipeline.NewAssembler(header, settings.IgnoreColumns, func(m map[string]string) {
		rows = append(rows, Record(m))
	}, metrics)
	pipe := pipeline.NewPipe[string]()

	var g errgroup.Group
	g.Go(func() error {
		pipe.Drain(asm.Add)
		asm.Finish()
		return nil
	})
	g.Go(func() error {
		defer pipe.Close()
		r.opts.Strategy.run(tok, pipe.Push)
		return in.Err()
	})

	pipe.Wait()
	err = g.Wait()

	r.header = header
	r.ignore = settings.IgnoreColumns
	r.rows = rows

	if err != nil {
		klog.ErrorS(err, "Reading source failed", "path", path, "records", len(rows))
		return &SourceError{Op: "read", Path: path, Err: err}
	}

	klog.V(2).InfoS("Parsed delimited text", "path", path, "records", len(rows))
	return nil
}

// Rows returns the records of the last parse.
func (r *Reader) Rows() []Record {
	return r.rows
}

// Cols returns the column names of the last parse, including ignored ones.
func (r *Reader) Cols() []string {
	return r.header
}

// Len returns the number of records of the last parse.
func (r *Reader) Len() int {
	return len(r.rows)
}

// Filter returns the records for which keep returns true. The stored
// records are not modified.
func (r *Reader) Filter(keep func(Record) bool) []Record {
	return Filter(r.rows, keep)
}

// columns returns the header without the ignored columns.
func (r *Reader) columns() []string {
	return visibleColumns(r.header, r.ignore)
}

func visibleColumns(header, ignore []string) []string {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	cols := make([]string, 0, len(header))
	for _, name := range header {
		if !skip[name] {
			cols = append(cols, name)
		}
	}
	return cols
}
