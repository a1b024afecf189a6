package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	scanned      prom.Counter
	changed      prom.Counter
	replacements *prom.CounterVec
	runDuration  prom.Histogram
	runOutcome   *prom.CounterVec
	lastRun      prom.Gauge
}

// NewPrometheusRecorder constructs and registers the rewrite metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		scanned: prom.NewCounter(prom.CounterOpts{
			Namespace: "xrefsync",
			Name:      "documents_scanned_total",
			Help:      "Documents read by the rewriter",
		}),
		changed: prom.NewCounter(prom.CounterOpts{
			Namespace: "xrefsync",
			Name:      "documents_changed_total",
			Help:      "Documents whose content changed",
		}),
		replacements: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "xrefsync",
			Name:      "replacements_total",
			Help:      "Literal substitutions applied, by rule kind",
		}, []string{"kind"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "xrefsync",
			Name:      "run_duration_seconds",
			Help:      "Duration of a rewrite run",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "xrefsync",
			Name:      "run_outcomes_total",
			Help:      "Rewrite runs by outcome",
		}, []string{"outcome"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: "xrefsync",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.scanned, pr.changed, pr.replacements, pr.runDuration, pr.runOutcome, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) IncDocumentsScanned() { p.scanned.Inc() }
func (p *PrometheusRecorder) IncDocumentsChanged() { p.changed.Inc() }

func (p *PrometheusRecorder) AddReplacements(kind string, n int) {
	if n <= 0 {
		return
	}
	p.replacements.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastRun.SetToCurrentTime()
}
