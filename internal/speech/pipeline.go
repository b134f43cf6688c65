package speech

import (
	"context"
	"log/slog"
	"strings"

	"github.com/praveen034u/Capstone/internal/audio"
)

// PipelineConfig controls the language hints attached to every
// recognition attempt.
type PipelineConfig struct {
	PrimaryLanguage    string
	AlternateLanguages []string
}

// Pipeline runs the container-to-encoding fallback ladder over a
// recognizer. Attempts are tried in order and the first one that yields a
// non-empty transcript wins; later attempts are never consulted for
// re-ranking.
type Pipeline struct {
	recognizer Recognizer
	config     PipelineConfig
	logger     *slog.Logger
}

// NewPipeline creates a transcription pipeline
func NewPipeline(recognizer Recognizer, config PipelineConfig, logger *slog.Logger) *Pipeline {
	if config.PrimaryLanguage == "" {
		config.PrimaryLanguage = "en-US"
	}

	return &Pipeline{
		recognizer: recognizer,
		config:     config,
		logger:     logger,
	}
}

// BuildAttempts derives the ordered attempt configurations for a clip.
// The sniffed container picks the lead attempt; a trailing unspecified
// attempt always remains so the provider gets one chance to infer the
// format itself.
func (p *Pipeline) BuildAttempts(clip Clip) []RecognitionConfig {
	var attempts []RecognitionConfig

	switch audio.Classify(clip.Data) {
	case audio.FormatWAV:
		rate := clip.SampleRate
		if rate <= 0 {
			if sniffed, ok := audio.SampleRate(clip.Data); ok {
				rate = sniffed
			}
		}
		attempts = append(attempts, p.newAttempt(EncodingLinear16, rate))

	case audio.FormatOGG:
		attempts = append(attempts, p.newAttempt(EncodingOggOpus, clip.SampleRate))

	case audio.FormatWebM:
		attempts = append(attempts, p.newAttempt(EncodingWebMOpus, clip.SampleRate))
	}

	attempts = append(attempts, p.newAttempt(EncodingUnspecified, clip.SampleRate))

	return attempts
}

func (p *Pipeline) newAttempt(encoding Encoding, sampleRate int) RecognitionConfig {
	cfg := RecognitionConfig{
		Encoding:                   encoding,
		LanguageCode:               p.config.PrimaryLanguage,
		AlternativeLanguageCodes:   p.config.AlternateLanguages,
		EnableAutomaticPunctuation: true,
		AudioChannelCount:          1,
	}
	if sampleRate > 0 {
		cfg.SampleRateHertz = sampleRate
	}
	return cfg
}

// Transcribe runs the attempts sequentially and returns the first
// non-empty transcript. A false return means no attempt produced speech,
// which is a normal outcome rather than an error; attempt failures are
// logged and swallowed.
func (p *Pipeline) Transcribe(ctx context.Context, clip Clip) (string, bool) {
	attempts := p.BuildAttempts(clip)
	fingerprint := audio.Fingerprint(clip.Data)

	p.logger.Debug("starting transcription",
		slog.String("fingerprint", fingerprint),
		slog.Int("clip_bytes", len(clip.Data)),
		slog.Int("attempts", len(attempts)),
	)

	for i, attempt := range attempts {
		p.logger.Debug("recognition attempt",
			slog.String("fingerprint", fingerprint),
			slog.Int("attempt", i+1),
			slog.String("encoding", string(attempt.Encoding)),
			slog.Int("sample_rate", attempt.SampleRateHertz),
		)

		results, err := p.recognizer.Recognize(ctx, attempt, clip.Data)
		if err != nil {
			p.logger.Warn("recognition attempt failed",
				slog.String("fingerprint", fingerprint),
				slog.Int("attempt", i+1),
				slog.String("encoding", string(attempt.Encoding)),
				slog.String("error", err.Error()),
			)
			continue
		}

		transcript := joinResults(results)
		if transcript == "" {
			continue
		}

		p.logger.Info("transcript accepted",
			slog.String("fingerprint", fingerprint),
			slog.Int("attempt", i+1),
			slog.String("encoding", string(attempt.Encoding)),
			slog.Int("length", len(transcript)),
		)
		return transcript, true
	}

	p.logger.Info("no transcript produced",
		slog.String("fingerprint", fingerprint),
		slog.Int("attempts", len(attempts)),
	)
	return "", false
}

// joinResults concatenates the top alternative of each segment. Segments
// without alternatives are skipped.
func joinResults(results []Result) string {
	var parts []string
	for _, r := range results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
