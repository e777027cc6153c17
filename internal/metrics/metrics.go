// Package metrics exposes Prometheus counters for decode outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/boleto/internal/boleto"
)

// Outcome label values.
const (
	OutcomeValid            = "valid"
	OutcomeChecksumMismatch = "checksum_mismatch"
)

// Metrics holds all Prometheus metrics for the decoder service.
type Metrics struct {
	Decodes          *prometheus.CounterVec
	ChecksumFailures *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boleto_decodes_total",
			Help: "Decode calls by input format and outcome",
		}, []string{"format", "outcome"}),
		ChecksumFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boleto_checksum_failures_total",
			Help: "Failed check digits by block",
		}, []string{"block"}),
	}
}

// ObserveDecode records the outcome of one Decode call. Exactly one of res
// and err is expected to be non-nil.
func (m *Metrics) ObserveDecode(res *boleto.Result, err error) {
	if err != nil {
		m.Decodes.WithLabelValues("unknown", boleto.KindOf(err).String()).Inc()
		return
	}
	outcome := OutcomeValid
	if !res.ChecksumValid {
		outcome = OutcomeChecksumMismatch
	}
	m.Decodes.WithLabelValues(res.Format.String(), outcome).Inc()
	for _, b := range res.Mismatches {
		m.ChecksumFailures.WithLabelValues(b.String()).Inc()
	}
}
