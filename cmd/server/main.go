package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/praveen034u/Capstone/internal/config"
	"github.com/praveen034u/Capstone/internal/metrics"
	"github.com/praveen034u/Capstone/internal/server"
	"github.com/praveen034u/Capstone/internal/session"
	"github.com/praveen034u/Capstone/internal/speech"
	"github.com/praveen034u/Capstone/internal/translate"
	"github.com/praveen034u/Capstone/internal/tts"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "capstone-speech-service"
	serviceVersion    = "1.0.0"

	sessionGaugeInterval = 15 * time.Second
)

func main() {
	// A .env file is optional; real environments set variables directly
	_ = godotenv.Load()

	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("address", cfg.Server.Address),
		slog.String("session_backend", cfg.Session.Backend),
		slog.Int("session_ttl", cfg.Session.TTL),
		slog.String("speech_provider", cfg.Speech.Provider),
		slog.String("primary_language", cfg.Speech.PrimaryLanguage),
		slog.Int("languages", len(cfg.Languages)),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize session store
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		store, err = session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			TTL:      cfg.Session.GetTTLDuration(),
		}, logger)
		if err != nil {
			logger.Error("Failed to create redis session store", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		store = session.NewMemoryStore(cfg.Session.GetTTLDuration(), logger)
	}
	logger.Info("Session store initialized",
		slog.String("backend", cfg.Session.Backend),
		slog.Duration("ttl", cfg.Session.GetTTLDuration()),
	)

	// Initialize speech recognition. A missing API key disables the
	// transcription endpoint but the service still starts.
	var recognizer speech.Recognizer
	var pipeline *speech.Pipeline
	if cfg.Speech.APIKey == "" {
		logger.Warn("Speech recognition disabled: no API key configured")
	} else {
		recognizer, err = speech.NewRecognizer(speech.Config{
			Provider: cfg.Speech.Provider,
			Google: speech.GoogleConfig{
				Endpoint: cfg.Speech.Endpoint,
				APIKey:   cfg.Speech.APIKey,
				Timeout:  cfg.Speech.GetTimeoutDuration(),
			},
			Whisper: speech.WhisperConfig{
				APIKey:  cfg.Speech.APIKey,
				BaseURL: cfg.Speech.Endpoint,
			},
		}, logger)
		if err != nil {
			logger.Error("Failed to create speech recognizer", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pipeline = speech.NewPipeline(recognizer, speech.PipelineConfig{
			PrimaryLanguage:    cfg.Speech.PrimaryLanguage,
			AlternateLanguages: cfg.Speech.AlternateLanguages,
		}, logger)
		logger.Info("Speech recognition initialized",
			slog.String("provider", cfg.Speech.Provider),
			slog.String("primary_language", cfg.Speech.PrimaryLanguage),
		)
	}

	// Initialize translation. Same story: missing key disables the
	// endpoint only.
	var translator *translate.Translator
	if cfg.Translation.APIKey == "" {
		logger.Warn("Translation disabled: no API key configured (set GEMINI_API_KEY)")
	} else {
		translator, err = translate.NewTranslator(translate.Config{
			APIKey:  cfg.Translation.APIKey,
			BaseURL: cfg.Translation.BaseURL,
			Model:   cfg.Translation.Model,
		}, logger)
		if err != nil {
			logger.Error("Failed to create translator", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Translation initialized")
	}

	// Speech synthesis needs no credentials
	synthesizer := tts.NewClient(tts.Config{
		Endpoint: cfg.Synthesis.Endpoint,
		Timeout:  cfg.Synthesis.GetTimeoutDuration(),
	}, logger)
	logger.Info("Speech synthesis initialized")

	// Initialize HTTP API server
	httpServer := server.NewHTTPServer(server.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Metrics:     appMetrics,
		Sessions:    store,
		Pipeline:    pipeline,
		Recognizer:  recognizer,
		Translator:  translator,
		Synthesizer: synthesizer,
	})
	logger.Info("HTTP API server initialized",
		slog.String("address", fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)),
	)

	// Start HTTP server
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Keep the active sessions gauge fresh
	go func() {
		ticker := time.NewTicker(sessionGaugeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if count, err := store.Count(ctx); err == nil {
					appMetrics.SetActiveSessions(count)
				}
			}
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("address", fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)),
	)

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Starting graceful shutdown...")

	// Stop HTTP server first (stop accepting new requests)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
	}

	// Stop background routines and drop sessions
	cancel()
	if err := store.Close(); err != nil {
		logger.Error("Error closing session store", slog.String("error", err.Error()))
	}

	// Get final statistics
	if src, ok := recognizer.(speech.StatsSource); ok {
		stats := src.GetStats()
		logger.Info("Final recognition statistics",
			slog.Uint64("total_requests", stats.TotalRequests),
			slog.Uint64("success_requests", stats.SuccessRequests),
			slog.Uint64("failed_requests", stats.FailedRequests),
			slog.Float64("success_rate", stats.SuccessRate),
		)
	}

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
