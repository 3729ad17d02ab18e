package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jszwec/csvutil"
	"github.com/shapestone/shape-core/pkg/ast"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/internal/pipeline"
)

// Writer writes rows with the current dialect.
//
// Rows are formatted by the caller's goroutine and queued; a background
// goroutine writes them out. Fields are joined by the delimiter as they are,
// without quoting. If the dialect has column names they are written once,
// before the first row.
//
// Example usage:
//
//	w, err := csv.NewWriter("out.csv")
//	if err != nil {
//	    return err
//	}
//	w.ConfigureDialect("out").ColumnNames("name", "age")
//	w.WriteRow("Alice", "30")
//	if err := w.Close(); err != nil {
//	    return err
//	}
type Writer struct {
	*Registry

	path   string
	closer io.Closer
	pipe   *pipeline.Pipe[string]
	group  errgroup.Group

	mu            sync.Mutex
	headerWritten bool
	closed        bool
}

// NewWriter creates the file at path, truncating it, and returns a Writer
// for it.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &SourceError{Op: "create", Path: path, Err: err}
	}
	w := newWriter(f, path)
	w.closer = f
	return w, nil
}

// NewWriterTo returns a Writer for dst. Close does not close dst.
func NewWriterTo(dst io.Writer) *Writer {
	return newWriter(dst, "")
}

func newWriter(dst io.Writer, path string) *Writer {
	w := &Writer{
		Registry: NewRegistry(),
		path:     path,
		pipe:     pipeline.NewPipe[string](),
	}

	w.group.Go(func() error {
		return flush(w.pipe, dst)
	})
	return w
}

// flush writes every queued line to dst. After the first error the
// remaining lines are discarded.
func flush(pipe *pipeline.Pipe[string], dst io.Writer) error {
	bw := bufio.NewWriter(dst)

	var err error
	pipe.Drain(func(line string) {
		if err != nil {
			return
		}
		_, err = bw.WriteString(line)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// WriteRow queues one row.
func (w *Writer) WriteRow(fields ...string) error {
	d, err := w.CurrentDialect()
	if err != nil {
		return err
	}
	s := d.Settings()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	if !w.headerWritten {
		w.headerWritten = true
		if len(s.ColumnNames) > 0 {
			w.pipe.Push(formatRow(s.ColumnNames, s))
		}
	}
	w.pipe.Push(formatRow(fields, s))
	return nil
}

// Write queues record. It lets a Writer serve as a csvutil.Writer.
func (w *Writer) Write(record []string) error {
	return w.WriteRow(record...)
}

// Encode writes v, a struct or a slice of structs, one row per struct.
//
// The header comes from the struct fields' csv tags unless the dialect has
// column names or rows were already written.
func (w *Writer) Encode(v interface{}) error {
	d, err := w.CurrentDialect()
	if err != nil {
		return err
	}

	w.mu.Lock()
	auto := !w.headerWritten && len(d.Settings().ColumnNames) == 0
	if auto {
		// The encoder writes its own header through WriteRow.
		w.headerWritten = true
	}
	w.mu.Unlock()

	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = auto
	return enc.Encode(v)
}

// WriteNode writes every row of an AST built by ToAST or RecordsToNode. The
// node's first row serves as the header, so the dialect's column names are
// not written.
func (w *Writer) WriteNode(node ast.SchemaNode) error {
	root, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return fmt.Errorf("unsupported node type: %T", node)
	}

	w.mu.Lock()
	w.headerWritten = true
	w.mu.Unlock()

	for i, elem := range root.Elements() {
		fields, err := nodeToFields(elem)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := w.WriteRow(fields...); err != nil {
			return err
		}
	}
	return nil
}

// Close writes out every queued row and waits for the background goroutine.
// A Writer created by NewWriter also closes its file. Close may be called
// more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.pipe.Close()
	err := w.group.Wait()
	if err != nil {
		klog.ErrorS(err, "Writing rows failed", "path", w.path)
		err = &SourceError{Op: "write", Path: w.path, Err: err}
	}

	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil {
			err = errors.Join(err, &SourceError{Op: "close", Path: w.path, Err: cerr})
		}
	}
	return err
}

func formatRow(fields []string, s DialectSettings) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString(s.Delimiter)
		}
		b.WriteString(f)
	}
	b.WriteString(s.LineTerminator)
	return b.String()
}
