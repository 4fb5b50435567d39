package metrics

import (
	"strconv"
	"time"

	"github.com/limaJavier/confsched/pkg/solver"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes scheduling requests as Prometheus metrics
type Recorder struct {
	registry    *prometheus.Registry
	builds      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	size        *prometheus.GaugeVec
	validations *prometheus.CounterVec
	violations  prometheus.Histogram
}

// NewRecorder registers the scheduling metrics on a dedicated registry
func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "confsched_builds_total",
			Help: "Total number of schedule builds by solver backend and status",
		}, []string{"backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "confsched_build_duration_seconds",
			Help:    "Time spent formulating and solving a schedule",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"backend"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "confsched_formulation_size",
			Help: "Variables and constraints of the last formulation",
		}, []string{"kind"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "confsched_validations_total",
			Help: "Total number of schedule validations by outcome",
		}, []string{"valid"}),
		violations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "confsched_violations",
			Help:    "Violated constraints per validation",
			Buckets: []float64{0, 1, 5, 10, 50, 100},
		}),
	}
	recorder.registry.MustRegister(recorder.builds, recorder.duration, recorder.size, recorder.validations, recorder.violations)
	return recorder
}

func (recorder *Recorder) ObserveBuild(backend string, status solver.Status, elapsed time.Duration, variables, constraints int) {
	recorder.builds.WithLabelValues(backend, status.String()).Inc()
	recorder.duration.WithLabelValues(backend).Observe(elapsed.Seconds())
	recorder.size.WithLabelValues("variables").Set(float64(variables))
	recorder.size.WithLabelValues("constraints").Set(float64(constraints))
}

func (recorder *Recorder) ObserveVerify(valid bool, violations int) {
	recorder.validations.WithLabelValues(strconv.FormatBool(valid)).Inc()
	recorder.violations.Observe(float64(violations))
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// WriteToTextfile dumps the metrics in the text exposition format, for node exporter's textfile collector
func (recorder *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, recorder.registry)
}
