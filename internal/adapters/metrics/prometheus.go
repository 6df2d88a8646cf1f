package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicepal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicepal_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voicepal_sessions_active",
		Help: "Number of live exploration sessions",
	})

	ThoughtStepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicepal_thought_steps_total",
		Help: "Total confirmed thought steps",
	})

	DebateTurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicepal_debate_turns_total",
		Help: "Total debate turns appended (user and assistant)",
	})

	GenerationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicepal_generation_requests_total",
		Help: "Total generation calls by kind and outcome",
	}, []string{"kind", "status"})

	GenerationRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicepal_generation_request_duration_seconds",
		Help:    "Generation call duration including retries",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})

	TranscriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voicepal_transcription_duration_seconds",
		Help:    "Speech transcription duration",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)
