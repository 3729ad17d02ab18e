package csv

import (
	"errors"
	"fmt"
)

// SourceError reports a failure to open, read, or write a text source.
// It wraps the underlying error, so errors.Is(err, fs.ErrNotExist) works.
type SourceError struct {
	// Op is the failed operation: "open", "read", "seek", "create", "write"
	// or "close".
	Op string
	// Path is the file involved. It is empty for io.Reader and io.Writer
	// sources.
	Path string
	// Err is the underlying error.
	Err error
}

// Error returns a message naming the operation and the file.
func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s source: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

var (
	// ErrDialectNotFound is returned when a dialect name was never
	// registered.
	ErrDialectNotFound = errors.New("dialect not found")

	// ErrReadInProgress is returned by AsyncReader.ReadAsync while a previous
	// read has not been closed.
	ErrReadInProgress = errors.New("read already in progress")

	// ErrWriterClosed is returned when writing to a closed Writer.
	ErrWriterClosed = errors.New("writer is closed")
)
