package csv

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shapestone/shape-csv-dialect/internal/pipeline"
	"github.com/shapestone/shape-csv-dialect/internal/tokenizer"
)

// Strategy selects how the source text is cut into records.
type Strategy int

const (
	// WholeStream scans the source character by character and ends records
	// at the dialect's line terminator. Quoted regions may span lines.
	WholeStream Strategy = iota
	// LineByLine reads one physical line at a time and splits it on its own.
	// The dialect's line terminator is not used.
	LineByLine
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case WholeStream:
		return "whole-stream"
	case LineByLine:
		return "line-by-line"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

func (s Strategy) run(tok *tokenizer.Tokenizer, emit func(string)) {
	if s == LineByLine {
		tok.RunLines(emit)
		return
	}
	tok.Run(emit)
}

// ReaderOptions configures a Reader or an AsyncReader.
type ReaderOptions struct {
	// Strategy selects the tokenizer.
	// Default: WholeStream for Reader, LineByLine for AsyncReader.
	Strategy Strategy

	// Registerer receives the pipeline counters (tokens, records, dropped
	// tokens). Default: nil (no metrics).
	Registerer prometheus.Registerer
}

// DefaultReaderOptions returns the default Reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Strategy: WholeStream,
	}
}

// DefaultAsyncReaderOptions returns the default AsyncReader configuration.
func DefaultAsyncReaderOptions() ReaderOptions {
	return ReaderOptions{
		Strategy: LineByLine,
	}
}

func (o ReaderOptions) metrics() (*pipeline.Metrics, error) {
	if o.Registerer == nil {
		return nil, nil
	}
	return pipeline.NewMetrics(o.Registerer)
}
