package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultGoogleEndpoint = "https://speech.googleapis.com/v1p1beta1/speech:recognize"

// GoogleConfig contains the cloud speech client configuration.
type GoogleConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// GoogleRecognizer calls the cloud speech recognize REST API. Each
// Recognize call is exactly one round trip; the fallback ladder above it
// is the only retry mechanism.
type GoogleRecognizer struct {
	config     GoogleConfig
	httpClient *http.Client
	logger     *slog.Logger

	clientStats
}

// NewGoogleRecognizer creates a cloud speech client
func NewGoogleRecognizer(config GoogleConfig, logger *slog.Logger) (*GoogleRecognizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	if config.Endpoint == "" {
		config.Endpoint = defaultGoogleEndpoint
	}

	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &GoogleRecognizer{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// googleRecognizeRequest mirrors the recognize API request body. Audio
// content marshals as base64, which is what the API expects.
type googleRecognizeRequest struct {
	Config googleRecognitionConfig `json:"config"`
	Audio  googleRecognitionAudio  `json:"audio"`
}

type googleRecognitionConfig struct {
	Encoding                   string   `json:"encoding,omitempty"`
	SampleRateHertz            int      `json:"sampleRateHertz,omitempty"`
	LanguageCode               string   `json:"languageCode"`
	AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
	EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
	AudioChannelCount          int      `json:"audioChannelCount,omitempty"`
}

type googleRecognitionAudio struct {
	Content []byte `json:"content"`
}

type googleRecognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
		ResultEndTime string `json:"resultEndTime"`
	} `json:"results"`
}

// Recognize sends one synchronous recognize request
func (g *GoogleRecognizer) Recognize(ctx context.Context, cfg RecognitionConfig, audioData []byte) ([]Result, error) {
	startTime := time.Now()
	g.incrementTotalRequests()

	reqBody := googleRecognizeRequest{
		Config: googleRecognitionConfig{
			LanguageCode:               cfg.LanguageCode,
			AlternativeLanguageCodes:   cfg.AlternativeLanguageCodes,
			EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
			AudioChannelCount:          cfg.AudioChannelCount,
		},
		Audio: googleRecognitionAudio{Content: audioData},
	}

	// ENCODING_UNSPECIFIED is expressed by omitting the field, which
	// delegates format inference to the provider.
	if cfg.Encoding != "" && cfg.Encoding != EncodingUnspecified {
		reqBody.Config.Encoding = string(cfg.Encoding)
	}
	if cfg.SampleRateHertz > 0 {
		reqBody.Config.SampleRateHertz = cfg.SampleRateHertz
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("failed to encode recognize request: %w", err)
	}

	requestURL := fmt.Sprintf("%s?key=%s", g.config.Endpoint, g.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	var recognizeResp googleRecognizeResponse
	if err := json.Unmarshal(respBody, &recognizeResp); err != nil {
		g.incrementFailedRequests()
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	g.incrementSuccessRequests()
	g.updateAvgResponseTime(time.Since(startTime))

	results := make([]Result, 0, len(recognizeResp.Results))
	for _, r := range recognizeResp.Results {
		result := Result{Alternatives: make([]Alternative, 0, len(r.Alternatives))}
		for _, alt := range r.Alternatives {
			result.Alternatives = append(result.Alternatives, Alternative{
				Transcript: alt.Transcript,
				Confidence: alt.Confidence,
			})
		}

		if endMillis, ok := parseDurationMillis(r.ResultEndTime); ok {
			g.logger.Debug("segment recognized",
				slog.Int("alternatives", len(r.Alternatives)),
				slog.Uint64("end_ms", endMillis),
			)
		}

		results = append(results, result)
	}

	return results, nil
}

// parseDurationMillis converts the API's decimal-seconds duration strings
// ("3.140s") to milliseconds.
func parseDurationMillis(s string) (uint64, bool) {
	s = strings.TrimSuffix(s, "s")
	if s == "" {
		return 0, false
	}

	seconds, err := decimal.NewFromString(s)
	if err != nil || seconds.IsNegative() {
		return 0, false
	}

	return seconds.Mul(decimal.NewFromInt(1000)).BigInt().Uint64(), true
}
