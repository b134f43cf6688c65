package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/praveen034u/Capstone/internal/config"
	"github.com/praveen034u/Capstone/internal/metrics"
	"github.com/praveen034u/Capstone/internal/session"
	"github.com/praveen034u/Capstone/internal/speech"
	"github.com/praveen034u/Capstone/internal/translate"
	"github.com/praveen034u/Capstone/internal/tts"
)

const (
	serviceName    = "capstone-speech-service"
	serviceVersion = "1.0.0"

	headerSessionID = "X-Session-ID"
)

// HTTPServer provides the HTTP API for transcription, extraction,
// translation, and synthesis, plus monitoring endpoints
type HTTPServer struct {
	server  *http.Server
	logger  *slog.Logger
	config  *config.Config
	metrics *metrics.Metrics

	sessions session.Store

	// pipeline and translator are nil when their credentials are
	// missing; the matching endpoints answer 503 while everything else
	// keeps working.
	pipeline    *speech.Pipeline
	recognizer  speech.Recognizer
	translator  *translate.Translator
	synthesizer *tts.Client

	startTime time.Time
}

// Dependencies bundles everything the HTTP server serves from
type Dependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Sessions    session.Store
	Pipeline    *speech.Pipeline
	Recognizer  speech.Recognizer
	Translator  *translate.Translator
	Synthesizer *tts.Client
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(deps Dependencies) *HTTPServer {
	h := &HTTPServer{
		logger:      deps.Logger,
		config:      deps.Config,
		metrics:     deps.Metrics,
		sessions:    deps.Sessions,
		pipeline:    deps.Pipeline,
		recognizer:  deps.Recognizer,
		translator:  deps.Translator,
		synthesizer: deps.Synthesizer,
		startTime:   time.Now(),
	}

	// Create HTTP server with routes
	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", deps.Config.Server.Address, deps.Config.Server.Port),
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// Transcription may ladder through several provider calls
		// before answering.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Feature endpoints
	mux.HandleFunc("/v1/transcribe", h.withMetrics("/v1/transcribe", h.handleTranscribe))
	mux.HandleFunc("/v1/extract", h.withMetrics("/v1/extract", h.handleExtract))
	mux.HandleFunc("/v1/text", h.withMetrics("/v1/text", h.handleText))
	mux.HandleFunc("/v1/translate", h.withMetrics("/v1/translate", h.handleTranslate))
	mux.HandleFunc("/v1/synthesize", h.withMetrics("/v1/synthesize", h.handleSynthesize))
	mux.HandleFunc("/v1/languages", h.withMetrics("/v1/languages", h.handleLanguages))
	mux.HandleFunc("/v1/session", h.withMetrics("/v1/session", h.handleSession))

	// Health check endpoint
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))

	// Configuration endpoint
	mux.HandleFunc("/config", h.withMetrics("/config", h.handleConfig))

	// Statistics endpoint
	mux.HandleFunc("/stats", h.withMetrics("/stats", h.handleStats))

	// Prometheus metrics endpoint (no metrics needed for metrics endpoint)
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Create a response writer wrapper to capture status code
		ww := &responseWriter{ResponseWriter: w, statusCode: 200}

		// Call the original handler
		handler(ww, r)

		// Record metrics
		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		// Record error if status code indicates an error
		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// sessionID resolves the request's session, minting one when the client
// did not send a header. The id is always echoed back so clients can
// adopt it.
func (h *HTTPServer) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(headerSessionID)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(headerSessionID, id)
	return id
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, statusCode int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *HTTPServer) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, map[string]interface{}{
		"error": message,
	})
}

func (h *HTTPServer) defaultLanguageCode() string {
	if len(h.config.Languages) > 0 {
		return h.config.Languages[0].Code
	}
	return "en"
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)

	sessionCount, err := h.sessions.Count(r.Context())
	sessionStatus := "running"
	if err != nil {
		sessionStatus = "degraded"
		h.logger.Warn("Failed to count sessions", slog.String("error", err.Error()))
	}

	speechComponent := map[string]interface{}{
		"status": featureStatus(h.pipeline != nil),
	}
	if src, ok := h.recognizer.(speech.StatsSource); ok {
		stats := src.GetStats()
		speechComponent["total_requests"] = stats.TotalRequests
		speechComponent["success_rate"] = stats.SuccessRate
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
		"service": map[string]interface{}{
			"name":    serviceName,
			"version": serviceVersion,
		},
		"components": map[string]interface{}{
			"sessions": map[string]interface{}{
				"status":       sessionStatus,
				"active_count": sessionCount,
			},
			"speech":      speechComponent,
			"translation": map[string]interface{}{"status": featureStatus(h.translator != nil)},
			"synthesis":   map[string]interface{}{"status": "enabled"},
		},
	}

	h.writeJSON(w, http.StatusOK, health)
}

func featureStatus(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// handleConfig implements the /config endpoint
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Return sanitized configuration (remove sensitive data)
	sanitizedConfig := map[string]interface{}{
		"server": map[string]interface{}{
			"port":             h.config.Server.Port,
			"address":          h.config.Server.Address,
			"max_upload_bytes": h.config.Server.MaxUploadBytes,
		},
		"session": map[string]interface{}{
			"backend": h.config.Session.Backend,
			"ttl":     h.config.Session.TTL,
		},
		"speech": map[string]interface{}{
			"provider":            h.config.Speech.Provider,
			"timeout":             h.config.Speech.Timeout,
			"primary_language":    h.config.Speech.PrimaryLanguage,
			"alternate_languages": h.config.Speech.AlternateLanguages,
			"configured":          h.config.Speech.APIKey != "",
			// Note: API key is intentionally omitted for security
		},
		"translation": map[string]interface{}{
			"model":      h.config.Translation.Model,
			"configured": h.config.Translation.APIKey != "",
		},
		"synthesis": map[string]interface{}{
			"timeout": h.config.Synthesis.Timeout,
		},
		"languages": h.config.Languages,
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
			"output": h.config.Logging.Output,
		},
	}

	h.writeJSON(w, http.StatusOK, sanitizedConfig)
}

// handleStats implements the /stats endpoint
func (h *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)

	sessionCount, err := h.sessions.Count(r.Context())
	if err != nil {
		h.logger.Warn("Failed to count sessions", slog.String("error", err.Error()))
	}

	stats := map[string]interface{}{
		"uptime":    uptime.String(),
		"timestamp": time.Now().UTC(),
		"sessions": map[string]interface{}{
			"active_count": sessionCount,
		},
		"features": map[string]interface{}{
			"speech":      h.pipeline != nil,
			"translation": h.translator != nil,
			"synthesis":   true,
		},
	}

	if src, ok := h.recognizer.(speech.StatsSource); ok {
		stats["speech"] = src.GetStats()
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// handleRoot implements the / endpoint with API documentation
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": serviceName,
		"version": serviceVersion,
		"endpoints": map[string]interface{}{
			"GET /":               "API documentation",
			"POST /v1/transcribe": "Transcribe an uploaded audio clip",
			"POST /v1/extract":    "Extract text from an uploaded document",
			"POST /v1/text":       "Store raw input text in the session",
			"POST /v1/translate":  "Translate session or request text",
			"POST /v1/synthesize": "Synthesize speech as MP3",
			"GET /v1/languages":   "List supported translation languages",
			"GET /v1/session":     "Get the current session snapshot",
			"GET /health":         "Service health check",
			"GET /config":         "Get service configuration",
			"GET /stats":          "Get service statistics",
			"GET /metrics":        "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	h.writeJSON(w, http.StatusOK, apiDoc)
}
