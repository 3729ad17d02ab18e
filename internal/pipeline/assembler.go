package pipeline

import (
	"strconv"

	"k8s.io/klog/v2"
)

// Assembler groups field tokens into records of len(header) columns.
//
// Every token is assigned to header[index % columns]. When a group is
// complete the ignored columns are removed and the record is handed to
// publish. A trailing group shorter than the header is never published.
type Assembler struct {
	header  []string
	ignore  []string
	publish func(map[string]string)
	metrics *Metrics

	index int
	row   map[string]string
}

// NewAssembler creates an assembler for the given header. publish is called
// from the goroutine running Add, once per completed record.
func NewAssembler(header, ignore []string, publish func(map[string]string), metrics *Metrics) *Assembler {
	return &Assembler{
		header:  header,
		ignore:  ignore,
		publish: publish,
		metrics: metrics,
		row:     make(map[string]string, len(header)),
	}
}

// SyntheticHeader returns the column names "0" .. "n-1".
func SyntheticHeader(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// Add assigns the next token.
func (a *Assembler) Add(token string) {
	a.metrics.token()

	cols := len(a.header)
	if cols == 0 {
		a.index++
		return
	}

	a.row[a.header[a.index%cols]] = token
	a.index++

	if a.index%cols == 0 {
		for _, name := range a.ignore {
			delete(a.row, name)
		}
		a.publish(a.row)
		a.metrics.record()
		a.row = make(map[string]string, cols)
	}
}

// Finish reports the tokens of an incomplete trailing group, which are
// discarded. It returns their number.
func (a *Assembler) Finish() int {
	n := a.Dropped()
	if n > 0 {
		klog.V(4).InfoS("Dropping incomplete trailing row", "tokens", n, "columns", len(a.header))
		a.metrics.dropped(n)
	}
	return n
}

// Dropped returns how many tokens are waiting in an unfinished group.
func (a *Assembler) Dropped() int {
	cols := len(a.header)
	if cols == 0 {
		return a.index
	}
	return a.index % cols
}
