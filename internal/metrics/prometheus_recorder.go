package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "apidocfm"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	fileOutcomes   *prom.CounterVec
	folderFailures *prom.CounterVec
	runDuration    *prom.HistogramVec
	lastRun        *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the run metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		fileOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_outcomes_total",
			Help:      "Per-file outcomes by operation, folder and outcome",
		}, []string{"operation", "folder", "outcome"}),
		folderFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "folder_failures_total",
			Help:      "Category folders that could not be traversed",
		}, []string{"operation", "folder"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete batch run",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		lastRun: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run of an operation finished",
		}, []string{"operation"}),
	}
	reg.MustRegister(pr.fileOutcomes, pr.folderFailures, pr.runDuration, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) IncFileOutcome(operation, folder, outcome string) {
	p.fileOutcomes.WithLabelValues(operation, folder, outcome).Inc()
}

func (p *PrometheusRecorder) IncFolderFailure(operation, folder string) {
	p.folderFailures.WithLabelValues(operation, folder).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(operation string, d time.Duration) {
	p.runDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetLastRun(operation string, at time.Time) {
	p.lastRun.WithLabelValues(operation).Set(float64(at.Unix()))
}

// Registry exposes the underlying registry (tests, custom exporters).
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// WriteTextfile writes all gathered metrics in text exposition format to path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
