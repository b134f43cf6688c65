package session

import (
	"testing"
)

func TestSnapshotSpeechText(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		want     string
		wantOK   bool
	}{
		{
			name:     "prefers translated text",
			snapshot: Snapshot{InputText: "hello", TranslatedText: "hola"},
			want:     "hola",
			wantOK:   true,
		},
		{
			name:     "falls back to input text",
			snapshot: Snapshot{InputText: "hello"},
			want:     "hello",
			wantOK:   true,
		},
		{
			name:     "empty session has nothing to speak",
			snapshot: Snapshot{},
			want:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.snapshot.SpeechText()
			if ok != tt.wantOK {
				t.Errorf("SpeechText() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("SpeechText() = %q, want %q", got, tt.want)
			}
		})
	}
}
