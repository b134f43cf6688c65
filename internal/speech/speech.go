package speech

import (
	"context"
	"fmt"
	"log/slog"
)

// Encoding tells the recognizer how to interpret the audio payload.
type Encoding string

const (
	EncodingLinear16    Encoding = "LINEAR16"
	EncodingOggOpus     Encoding = "OGG_OPUS"
	EncodingWebMOpus    Encoding = "WEBM_OPUS"
	EncodingUnspecified Encoding = "ENCODING_UNSPECIFIED"
)

// RecognitionConfig describes a single recognition attempt. A fresh value
// is built per attempt and never mutated afterwards.
type RecognitionConfig struct {
	Encoding                   Encoding
	SampleRateHertz            int // 0 leaves the rate to the provider
	LanguageCode               string
	AlternativeLanguageCodes   []string
	EnableAutomaticPunctuation bool
	AudioChannelCount          int
}

// Alternative is one ranked transcription hypothesis for a segment.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Result is one recognized segment with alternatives ordered best first.
type Result struct {
	Alternatives []Alternative
}

// Recognizer performs one synchronous recognition call against an
// external speech-to-text provider.
type Recognizer interface {
	Recognize(ctx context.Context, cfg RecognitionConfig, audio []byte) ([]Result, error)
}

// Clip is a captured audio buffer together with its declared sample rate
// (0 when the caller did not declare one). Immutable once captured.
type Clip struct {
	Data       []byte
	SampleRate int
}

// Config selects and configures a speech-to-text provider.
type Config struct {
	Provider string // "google" or "openai"
	Google   GoogleConfig
	Whisper  WhisperConfig
}

// NewRecognizer builds the recognizer named by cfg.Provider.
func NewRecognizer(cfg Config, logger *slog.Logger) (Recognizer, error) {
	switch cfg.Provider {
	case "google":
		return NewGoogleRecognizer(cfg.Google, logger)
	case "openai":
		return NewWhisperRecognizer(cfg.Whisper, logger)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", cfg.Provider)
	}
}
