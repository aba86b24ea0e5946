package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	betsSimulated *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtest_runs_total",
				Help: "Total number of backtest runs by terminal status",
			},
			[]string{"strategy", "status"},
		),
		betsSimulated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtest_bets_simulated_total",
				Help: "Total number of simulated bets across runs",
			},
			[]string{"strategy"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtest_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		runDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backtest_run_duration_seconds",
				Help:    "End to end duration of backtest runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
	}
}

// RecordRun counts one finished run with its terminal status.
func (r *Recorder) RecordRun(strategy, status string) {
	r.runsTotal.WithLabelValues(strategy, status).Inc()
}

// RecordBetsSimulated adds the bet count of a finished run.
func (r *Recorder) RecordBetsSimulated(strategy string, n int) {
	r.betsSimulated.WithLabelValues(strategy).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRunDuration records run duration in seconds.
func (r *Recorder) RecordRunDuration(strategy string, seconds float64) {
	r.runDuration.WithLabelValues(strategy).Observe(seconds)
}
