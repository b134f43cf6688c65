package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultModel   = "gemini-2.0-flash"

	promptTemplate = "Translate the following text to %s. Return only the translated text.\n\n%s"
)

// Config contains the translation client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Translator sends translation prompts to an OpenAI-compatible
// chat-completion endpoint.
type Translator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewTranslator creates a translation client
func NewTranslator(config Config, logger *slog.Logger) (*Translator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return &Translator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
		logger: logger,
	}, nil
}

// Translate renders the prompt for the target language and returns the
// model's reply verbatim apart from whitespace trimming.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}
	if targetLanguage == "" {
		return "", fmt.Errorf("target language cannot be empty")
	}

	prompt := fmt.Sprintf(promptTemplate, targetLanguage, text)

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation response contained no choices")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("translation response was empty")
	}

	t.logger.Debug("text translated",
		slog.String("target_language", targetLanguage),
		slog.Int("input_length", len(text)),
		slog.Int("output_length", len(translated)),
	)

	return translated, nil
}
