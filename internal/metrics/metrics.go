// Package metrics exposes Prometheus collectors for segmentation activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zhseg"

// Metrics holds the daemon's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	segmentDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	tokens          prometheus.Counter
	lexiconWords    prometheus.Gauge
	learnedWords    prometheus.Gauge
	snapshots       *prometheus.CounterVec
}

// MustNewMetrics constructs Metrics and registers them with reg.
// Registration errors panic, mirroring promauto.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		segmentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "segment_duration_seconds",
				Help:      "Time spent segmenting one text.",
				Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"source"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "segment_requests_total",
				Help:      "Segmentation requests by source and outcome.",
			},
			[]string{"source", "status"},
		),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens produced across all requests.",
		}),
		lexiconWords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lexicon_words",
			Help:      "Words in the loaded dictionary.",
		}),
		learnedWords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "learned_words",
			Help:      "Words in the learning table.",
		}),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "learning_snapshots_total",
				Help:      "Learning table snapshots by outcome.",
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.segmentDuration, m.requests, m.tokens, m.lexiconWords, m.learnedWords, m.snapshots)
	return m
}

// ObserveSegment records a successful segmentation.
func (m *Metrics) ObserveSegment(source string, tokens int, d time.Duration) {
	if m == nil {
		return
	}
	m.segmentDuration.WithLabelValues(source).Observe(d.Seconds())
	m.requests.WithLabelValues(source, "ok").Inc()
	m.tokens.Add(float64(tokens))
}

// IncRejected counts a request refused before segmentation.
func (m *Metrics) IncRejected(source, reason string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(source, reason).Inc()
}

// SetLexiconWords records the dictionary size.
func (m *Metrics) SetLexiconWords(n int) {
	if m == nil {
		return
	}
	m.lexiconWords.Set(float64(n))
}

// SetLearnedWords records the learning table size.
func (m *Metrics) SetLearnedWords(n int) {
	if m == nil {
		return
	}
	m.learnedWords.Set(float64(n))
}

// IncSnapshot counts a snapshot attempt.
func (m *Metrics) IncSnapshot(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.snapshots.WithLabelValues(status).Inc()
}
