package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. Each instance owns its registry so
// tests can build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnswersTotal    *prometheus.CounterVec
	AnswerScore     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gameshow",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gameshow",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		AnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gameshow",
				Name:      "answers_evaluated_total",
				Help:      "Evaluated answers by outcome",
			},
			[]string{"result"},
		),
		AnswerScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "gameshow",
				Name:      "answer_score",
				Help:      "Points awarded per correct answer",
				Buckets:   []float64{100, 250, 500, 625, 750, 875, 1000, 2000},
			},
		),
	}
	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.AnswersTotal,
		m.AnswerScore,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnswer records one evaluated answer.
func (m *Metrics) ObserveAnswer(correct bool, score int) {
	if !correct {
		m.AnswersTotal.WithLabelValues("incorrect").Inc()
		return
	}
	m.AnswersTotal.WithLabelValues("correct").Inc()
	m.AnswerScore.Observe(float64(score))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
