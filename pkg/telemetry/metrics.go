// Package telemetry exposes reliability run results as Prometheus gauges.
// It mirrors the exposition side of intel-PerfSpect's metrics server
// (cmd/metrics/metrics_server.go) rather than the teacher's monitoring
// package, which only ever queries Prometheus, never registers metrics
// against it.
package telemetry

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srlab/scheme-reliability/pkg/scheme"
)

const metricPrefix = "scheme_reliability_"

// Exporter holds the gauges for the most recently observed reliability
// computation and serves them over HTTP via Handler.
type Exporter struct {
	registry *prometheus.Registry

	mu         sync.RWMutex
	sp         prometheus.Gauge
	sq         prometheus.Gauge
	numericWarn prometheus.Gauge
	elementFail *prometheus.GaugeVec
	stateCount prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewExporter builds an Exporter with its own registry, so a caller never
// risks a duplicate-registration panic against the global
// prometheus.DefaultRegisterer when multiple Exporters exist in the same
// process (e.g. in tests).
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		sp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "sp",
			Help: "Most recently computed scheme success probability.",
		}),
		sq: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "sq",
			Help: "Most recently computed scheme failure probability.",
		}),
		numericWarn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "numeric_warning",
			Help: "1 if the last run's |sp+sq-1| exceeded the numeric tolerance, 0 otherwise.",
		}),
		elementFail: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricPrefix + "element_fail_prob",
			Help: "Per-element contribution to overall scheme failure probability.",
		}, []string{"element"}),
		stateCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "state_count",
			Help: "Number of states (2^N) swept by the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix timestamp of the last Observe call.",
		}),
	}

	e.registry.MustRegister(e.sp, e.sq, e.numericWarn, e.elementFail, e.stateCount, e.lastRun)
	return e
}

// Observe updates the exported gauges from a completed reliability
// computation. elementNames must be the same length as
// summary.FailProbPerElement, in index order; names are the gauge's
// "element" label value, so this is the only place in the process a
// scheme's element names need to be known by the telemetry layer.
func (e *Exporter) Observe(summary scheme.Summary, elementNames []string) error {
	if len(elementNames) != len(summary.FailProbPerElement) {
		return fmt.Errorf("telemetry: %d element names but %d fail-probability entries", len(elementNames), len(summary.FailProbPerElement))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sp.Set(summary.SP)
	e.sq.Set(summary.SQ)
	if summary.NumericWarning {
		e.numericWarn.Set(1)
	} else {
		e.numericWarn.Set(0)
	}
	e.stateCount.Set(float64(summary.StateCount))
	e.lastRun.Set(float64(nowUnix()))

	for i, name := range elementNames {
		e.elementFail.WithLabelValues(name).Set(summary.FailProbPerElement[i])
	}
	return nil
}

// Handler returns the HTTP handler serving this Exporter's registry in the
// Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// nowUnix is a thin indirection so tests could fake the clock if ever
// needed; kept as a var rather than a direct time.Now call for that reason.
var nowUnix = func() int64 { return time.Now().Unix() }
