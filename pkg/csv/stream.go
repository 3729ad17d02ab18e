package csv

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/internal/pipeline"
	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// AsyncReader hands out records while the source is still being parsed.
//
// ReadAsync counts the physical lines of the file up front, so the number
// of records to expect is known before the first one is assembled. Done,
// HasNext and Next may be called from any goroutine while the background
// goroutines run.
//
// Example usage:
//
//	ar := csv.NewAsyncReader()
//	ar.ConfigureDialect("tsv").Delimiter("\t")
//	if err := ar.ReadAsync("data.tsv"); err != nil {
//	    // handle error
//	}
//	defer ar.Close()
//
//	for !ar.Done() {
//	    if ar.HasNext() {
//	        fmt.Println(ar.Next())
//	    }
//	}
type AsyncReader struct {
	*Registry

	opts ReaderOptions

	mu    sync.Mutex
	file  *os.File
	group *errgroup.Group

	state streamState
}

// streamState is shared between the caller and the assembling goroutine.
type streamState struct {
	mu       sync.Mutex
	header   []string
	rows     []Record
	expected int
	cursor   int
	started  bool
	finished bool
}

// NewAsyncReader creates an AsyncReader with DefaultAsyncReaderOptions.
func NewAsyncReader() *AsyncReader {
	return NewAsyncReaderWithOptions(DefaultAsyncReaderOptions())
}

// NewAsyncReaderWithOptions creates an AsyncReader with custom options.
func NewAsyncReaderWithOptions(opts ReaderOptions) *AsyncReader {
	return &AsyncReader{
		Registry: NewRegistry(),
		opts:     opts,
	}
}

// ReadAsync starts parsing the file at path with the current dialect and
// returns without waiting for any record.
//
// Errors opening or rewinding the file are returned before any goroutine
// starts. Call Close to release the file once the records are consumed.
func (a *AsyncReader) ReadAsync(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.group != nil {
		return ErrReadInProgress
	}

	name := a.CurrentDialectName()
	d, err := a.GetDialect(name)
	if err != nil {
		return err
	}
	settings := d.Settings()

	metrics, err := a.opts.metrics()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return &SourceError{Op: "open", Path: path, Err: err}
	}

	expected := tokenizer.CountLines(f)
	if settings.Header && expected > 0 {
		expected--
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return &SourceError{Op: "seek", Path: path, Err: err}
	}

	klog.V(2).InfoS("Starting asynchronous read", "path", path, "dialect", name,
		"strategy", a.opts.Strategy, "expected", expected)

	a.state.reset(expected)
	a.file = f
	a.group = &errgroup.Group{}

	g := a.group
	g.Go(func() error {
		return a.produce(g, f, path, settings, metrics)
	})
	return nil
}

// produce resolves the header, starts the assembling goroutine and then
// tokenizes the rest of the file.
func (a *AsyncReader) produce(g *errgroup.Group, src io.Reader, path string, settings DialectSettings, metrics *pipeline.Metrics) error {
	in := &sourceReader{r: src}
	tok := tokenizer.NewFromReader(in, settings.rules())
	header := resolveHeader(tok, settings)
	klog.V(4).InfoS("Resolved header", "path", path, "columns", header)

	pipe := pipeline.NewPipe[string]()
	asm := pipeline.NewAssembler(header, settings.IgnoreColumns, a.state.publish, metrics)

	g.Go(func() error {
		pipe.Drain(asm.Add)
		asm.Finish()
		a.state.finish()
		klog.V(2).InfoS("Finished asynchronous read", "path", path, "records", a.state.assembled())
		return nil
	})
	a.state.start(header)

	defer pipe.Close()
	a.opts.Strategy.run(tok, pipe.Push)

	if err := in.Err(); err != nil {
		klog.ErrorS(err, "Reading source failed", "path", path)
		return &SourceError{Op: "read", Path: path, Err: err}
	}
	return nil
}

// Done reports whether every expected record has been handed out by Next.
// It is false until assembly has started. It also becomes true once
// assembly has finished and every assembled record has been read, which
// covers files whose line count overstates the records, such as a short
// final row or blank lines.
func (a *AsyncReader) Done() bool {
	s := &a.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false
	}
	return s.cursor == s.expected || (s.finished && s.cursor == len(s.rows))
}

// HasNext reports whether Next has a record to return right now.
func (a *AsyncReader) HasNext() bool {
	s := &a.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available()
}

// Next returns the next unread record and advances the cursor. It returns
// nil, without advancing, when HasNext would be false.
func (a *AsyncReader) Next() Record {
	s := &a.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available() {
		return nil
	}
	rec := s.rows[s.cursor]
	s.cursor++
	return rec
}

// Cols returns the column names, including ignored ones. It is nil until
// assembly has started.
func (a *AsyncReader) Cols() []string {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	return a.state.header
}

// Expected returns the number of records the line count announced.
func (a *AsyncReader) Expected() int {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	return a.state.expected
}

// Len returns the number of records assembled so far.
func (a *AsyncReader) Len() int {
	return a.state.assembled()
}

// Wait blocks until both background goroutines have returned and reports
// a read error, if any.
func (a *AsyncReader) Wait() error {
	a.mu.Lock()
	g := a.group
	a.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Wait()
}

// Close waits for the background goroutines and releases the file. The
// records already assembled stay readable. A new ReadAsync may follow.
func (a *AsyncReader) Close() error {
	werr := a.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	var cerr error
	if a.file != nil {
		if err := a.file.Close(); err != nil {
			cerr = &SourceError{Op: "close", Path: a.file.Name(), Err: err}
		}
	}
	a.file = nil
	a.group = nil
	return errors.Join(werr, cerr)
}

func (s *streamState) reset(expected int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.header = nil
	s.rows = nil
	s.expected = expected
	s.cursor = 0
	s.started = false
	s.finished = false
}

func (s *streamState) start(header []string) {
	s.mu.Lock()
	s.header = header
	s.started = true
	s.mu.Unlock()
}

func (s *streamState) publish(m map[string]string) {
	s.mu.Lock()
	s.rows = append(s.rows, Record(m))
	s.mu.Unlock()
}

func (s *streamState) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
}

func (s *streamState) assembled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// available must be called with s.mu held.
func (s *streamState) available() bool {
	return s.cursor < s.expected && s.cursor < len(s.rows)
}
