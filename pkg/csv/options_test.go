package csv_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func TestDefaultOptions(t *testing.T) {
	if got := csv.DefaultReaderOptions().Strategy; got != csv.WholeStream {
		t.Errorf("DefaultReaderOptions().Strategy = %v, want %v", got, csv.WholeStream)
	}
	if got := csv.DefaultAsyncReaderOptions().Strategy; got != csv.LineByLine {
		t.Errorf("DefaultAsyncReaderOptions().Strategy = %v, want %v", got, csv.LineByLine)
	}
}

func TestReaderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := csv.DefaultReaderOptions()
	opts.Registerer = reg

	r := csv.NewReaderWithOptions(opts)
	r.ConfigureDialect("test").LineTerminator("\r\n")

	// Parse twice: the second parse shares the counters of the first.
	for i := 0; i < 2; i++ {
		if err := r.Parse(strings.NewReader("a,b\r\n1,2\r\n3,4\r\n5\r\n")); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
	}

	want := `
# HELP csv_pipeline_dropped_tokens_total Tokens of incomplete trailing rows that were discarded.
# TYPE csv_pipeline_dropped_tokens_total counter
csv_pipeline_dropped_tokens_total 2
# HELP csv_pipeline_records_total Records assembled and published.
# TYPE csv_pipeline_records_total counter
csv_pipeline_records_total 4
# HELP csv_pipeline_tokens_total Field tokens consumed by the row assembler.
# TYPE csv_pipeline_tokens_total counter
csv_pipeline_tokens_total 10
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"csv_pipeline_tokens_total", "csv_pipeline_records_total", "csv_pipeline_dropped_tokens_total")
	if err != nil {
		t.Error(err)
	}
}
