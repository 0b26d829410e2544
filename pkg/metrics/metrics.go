// Package metrics exports OTP generation and validation counters to
// Prometheus. Metrics implements otp.Observer.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jeremyhahn/go-totp/pkg/otp"
)

// Metrics holds the OTP collectors on an isolated registry, so several
// instances never collide with each other or the default registry.
type Metrics struct {
	Registry *prometheus.Registry

	GeneratedTotal   *prometheus.CounterVec
	ValidationsTotal *prometheus.CounterVec
}

var _ otp.Observer = (*Metrics)(nil)

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		GeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_codes_generated_total",
				Help: "Total number of one-time codes generated.",
			},
			[]string{"algorithm"},
		),
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_validations_total",
				Help: "Total number of one-time code validations by result.",
			},
			[]string{"algorithm", "result"},
		),
	}
	m.Registry.MustRegister(m.GeneratedTotal, m.ValidationsTotal)
	return m
}

// Generated implements otp.Observer.
func (m *Metrics) Generated(alg otp.Algorithm) {
	m.GeneratedTotal.WithLabelValues(alg.String()).Inc()
}

// Validated implements otp.Observer.
func (m *Metrics) Validated(alg otp.Algorithm, ok bool) {
	result := "rejected"
	if ok {
		result = "accepted"
	}
	m.ValidationsTotal.WithLabelValues(alg.String(), result).Inc()
}

// WriteTextfile writes the registry in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
