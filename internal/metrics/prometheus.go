package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the translation service
type Metrics struct {
	// Transcription metrics
	TranscriptionRequests *prometheus.CounterVec
	TranscriptionDuration prometheus.Histogram
	TranscriptionAttempts prometheus.Histogram
	AudioBytesReceived    prometheus.Counter

	// Translation metrics
	TranslationRequests *prometheus.CounterVec
	TranslationDuration prometheus.Histogram

	// Speech synthesis metrics
	SynthesisRequests *prometheus.CounterVec
	SynthesisBytes    prometheus.Counter

	// Document extraction metrics
	ExtractionRequests *prometheus.CounterVec

	// Session metrics
	ActiveSessions prometheus.Gauge

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Transcription metrics
		TranscriptionRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_transcription_requests_total",
			Help: "Total number of transcription requests by outcome",
		}, []string{"outcome"}),
		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "capstone_transcription_duration_seconds",
			Help:    "Duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),
		TranscriptionAttempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "capstone_transcription_attempts",
			Help:    "Number of recognition attempts tried per clip",
			Buckets: prometheus.LinearBuckets(1, 1, 4), // 1 to 4 attempts
		}),
		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "capstone_audio_bytes_received_total",
			Help: "Total bytes of audio received for transcription",
		}),

		// Translation metrics
		TranslationRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_translation_requests_total",
			Help: "Total number of translation requests by outcome",
		}, []string{"outcome"}),
		TranslationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "capstone_translation_duration_seconds",
			Help:    "Duration of translation requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		// Speech synthesis metrics
		SynthesisRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_synthesis_requests_total",
			Help: "Total number of speech synthesis requests by outcome",
		}, []string{"outcome"}),
		SynthesisBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "capstone_synthesis_bytes_total",
			Help: "Total bytes of synthesized audio returned",
		}),

		// Document extraction metrics
		ExtractionRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_extraction_requests_total",
			Help: "Total number of document extraction requests by format and outcome",
		}, []string{"format", "outcome"}),

		// Session metrics
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "capstone_active_sessions",
			Help: "Current number of live sessions",
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "capstone_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "capstone_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordTranscription records one transcription request with its outcome,
// duration, and how many recognition attempts were tried
func (m *Metrics) RecordTranscription(outcome string, durationSeconds float64, attempts int) {
	m.TranscriptionRequests.WithLabelValues(outcome).Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
	m.TranscriptionAttempts.Observe(float64(attempts))
}

// RecordAudioReceived adds to the received audio byte counter
func (m *Metrics) RecordAudioReceived(sizeBytes int) {
	m.AudioBytesReceived.Add(float64(sizeBytes))
}

// RecordTranslation records one translation request
func (m *Metrics) RecordTranslation(outcome string, durationSeconds float64) {
	m.TranslationRequests.WithLabelValues(outcome).Inc()
	m.TranslationDuration.Observe(durationSeconds)
}

// RecordSynthesis records one speech synthesis request
func (m *Metrics) RecordSynthesis(outcome string, sizeBytes int) {
	m.SynthesisRequests.WithLabelValues(outcome).Inc()
	if sizeBytes > 0 {
		m.SynthesisBytes.Add(float64(sizeBytes))
	}
}

// RecordExtraction records one document extraction request
func (m *Metrics) RecordExtraction(format, outcome string) {
	m.ExtractionRequests.WithLabelValues(format, outcome).Inc()
}

// SetActiveSessions sets the current number of live sessions
func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
