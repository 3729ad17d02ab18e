package pipeline

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "csv"
	metricsSubsystem = "pipeline"
)

// Metrics counts what the assembler sees. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Tokens  prometheus.Counter
	Records prometheus.Counter
	Dropped prometheus.Counter
}

// NewMetrics creates the pipeline counters and registers them with reg.
// Counters already registered by another pipeline are shared.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tokens_total",
			Help:      "Field tokens consumed by the row assembler.",
		}),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_total",
			Help:      "Records assembled and published.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "dropped_tokens_total",
			Help:      "Tokens of incomplete trailing rows that were discarded.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Tokens, err = register(reg, m.Tokens); err != nil {
		return nil, err
	}
	if m.Records, err = register(reg, m.Records); err != nil {
		return nil, err
	}
	if m.Dropped, err = register(reg, m.Dropped); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) token() {
	if m != nil {
		m.Tokens.Inc()
	}
}

func (m *Metrics) record() {
	if m != nil {
		m.Records.Inc()
	}
}

func (m *Metrics) dropped(n int) {
	if m != nil && n > 0 {
		m.Dropped.Add(float64(n))
	}
}
