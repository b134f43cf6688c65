package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperConfig contains the OpenAI-compatible transcription client
// configuration. BaseURL may point at any server that implements the
// audio transcription endpoint.
type WhisperConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WhisperRecognizer transcribes clips through an OpenAI-compatible
// transcription endpoint.
type WhisperRecognizer struct {
	client *openai.Client
	model  string
	logger *slog.Logger

	clientStats
}

// NewWhisperRecognizer creates a transcription client backed by go-openai.
func NewWhisperRecognizer(config WhisperConfig, logger *slog.Logger) (*WhisperRecognizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	if config.Model == "" {
		config.Model = openai.Whisper1
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &WhisperRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		logger: logger,
	}, nil
}

// Recognize submits the clip as a single transcription request. Whisper
// returns one flat transcript, so the response maps to at most one
// result with one alternative.
func (w *WhisperRecognizer) Recognize(ctx context.Context, cfg RecognitionConfig, audioData []byte) ([]Result, error) {
	startTime := time.Now()
	w.incrementTotalRequests()

	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: "clip" + extensionFor(cfg.Encoding),
		Reader:   bytes.NewReader(audioData),
		Language: baseLanguage(cfg.LanguageCode),
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		w.incrementFailedRequests()
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}

	w.incrementSuccessRequests()
	w.updateAvgResponseTime(time.Since(startTime))

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, nil
	}

	w.logger.Debug("whisper transcript received", slog.Int("length", len(text)))

	return []Result{
		{Alternatives: []Alternative{{Transcript: text, Confidence: 1}}},
	}, nil
}

// extensionFor names the upload so the endpoint can detect the container.
func extensionFor(encoding Encoding) string {
	switch encoding {
	case EncodingLinear16:
		return ".wav"
	case EncodingOggOpus:
		return ".ogg"
	case EncodingWebMOpus:
		return ".webm"
	default:
		return ".mp3"
	}
}

// baseLanguage reduces a BCP-47 tag to the bare language Whisper accepts.
func baseLanguage(code string) string {
	if idx := strings.IndexByte(code, '-'); idx > 0 {
		return code[:idx]
	}
	return code
}
