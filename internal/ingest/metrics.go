package ingest

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jask/fraudscope/internal/errs"
)

// Metrics are the ingestion counters.
type Metrics struct {
	Attempts prometheus.Counter
	Failures *prometheus.CounterVec
	Records  prometheus.Gauge
}

// NewMetrics creates the ingestion metrics and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fraudscope",
			Subsystem: "ingest",
			Name:      "attempts_total",
			Help:      "Dataset load attempts, including retries.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraudscope",
			Subsystem: "ingest",
			Name:      "failures_total",
			Help:      "Failed dataset load attempts by error kind.",
		}, []string{"kind"}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fraudscope",
			Subsystem: "ingest",
			Name:      "records",
			Help:      "Records in the most recently loaded dataset.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Attempts, m.Failures, m.Records)
	}
	return m
}

func (m *Metrics) observeFailure(err error) {
	kind, ok := errs.KindOf(err)
	if !ok {
		kind = "other"
	}
	m.Failures.WithLabelValues(string(kind)).Inc()
}
