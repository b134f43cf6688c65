package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://translate.google.com/translate_tts"
	mimeTypeMP3     = "audio/mpeg"

	// The endpoint rejects long q parameters, so inputs are chunked.
	maxChunkLen = 200
)

// Audio is a synthesized utterance.
type Audio struct {
	Data     []byte
	MIMEType string
}

// Config contains the synthesis client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client fetches MP3 speech for text. The endpoint needs no credentials,
// so a Client is always constructable.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a speech synthesis client
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.Endpoint == "" {
		config.Endpoint = defaultEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Synthesize converts text to MP3 speech in the given language. All
// chunks must succeed; a failed fragment fails the whole call so the
// caller never receives a truncated utterance.
func (c *Client) Synthesize(ctx context.Context, text, languageCode string) (Audio, error) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, fmt.Errorf("text cannot be empty")
	}
	if languageCode == "" {
		return Audio{}, fmt.Errorf("language code cannot be empty")
	}

	chunks := splitText(text, maxChunkLen)

	var data []byte
	for i, chunk := range chunks {
		fragment, err := c.fetchChunk(ctx, chunk, languageCode)
		if err != nil {
			return Audio{}, fmt.Errorf("synthesis chunk %d/%d failed: %w", i+1, len(chunks), err)
		}
		data = append(data, fragment...)
	}

	c.logger.Debug("speech synthesized",
		slog.String("language_code", languageCode),
		slog.Int("chunks", len(chunks)),
		slog.Int("bytes", len(data)),
	)

	return Audio{Data: data, MIMEType: mimeTypeMP3}, nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk, languageCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", languageCode)
	params.Set("q", chunk)

	requestURL := c.config.Endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(message))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}

	return body, nil
}

// splitText breaks text into fragments of at most limit runes, preferring
// word boundaries. A single word longer than the limit is hard-split, but
// never inside a rune: zh and ja text carries no spaces, so the whole
// string reaches the hard split as one word.
func splitText(text string, limit int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}

		extra := len(runes)
		if len(current) > 0 {
			extra++
		}
		if len(current)+extra > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()

	return chunks
}
