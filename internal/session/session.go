package session

import (
	"context"
	"time"
)

// Snapshot is the current state of one session's text slots.
type Snapshot struct {
	InputText      string    `json:"input_text"`
	TranslatedText string    `json:"translated_text"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SpeechText picks the text a synthesis request should speak when the
// caller supplies none: the last translation, else the last input.
func (s Snapshot) SpeechText() (string, bool) {
	if s.TranslatedText != "" {
		return s.TranslatedText, true
	}
	if s.InputText != "" {
		return s.InputText, true
	}
	return "", false
}

// Store persists session snapshots. Reading an unknown session returns an
// empty snapshot, not an error.
type Store interface {
	Snapshot(ctx context.Context, sessionID string) (Snapshot, error)
	SetInput(ctx context.Context, sessionID, text string) error
	SetTranslated(ctx context.Context, sessionID, text string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
