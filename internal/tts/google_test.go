package tts

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestSynthesize(t *testing.T) {
	var capturedQueries []string
	var capturedLangs []string
	var capturedClients []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQueries = append(capturedQueries, r.URL.Query().Get("q"))
		capturedLangs = append(capturedLangs, r.URL.Query().Get("tl"))
		capturedClients = append(capturedClients, r.URL.Query().Get("client"))

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("MP3:" + r.URL.Query().Get("q") + ";"))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL}, testLogger())

	audio, err := client.Synthesize(context.Background(), "hello world", "es")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if audio.MIMEType != "audio/mpeg" {
		t.Errorf("MIMEType = %q, want audio/mpeg", audio.MIMEType)
	}
	if string(audio.Data) != "MP3:hello world;" {
		t.Errorf("Data = %q, want the fetched fragment", audio.Data)
	}
	if len(capturedQueries) != 1 {
		t.Fatalf("endpoint hit %d times, want 1", len(capturedQueries))
	}
	if capturedLangs[0] != "es" {
		t.Errorf("tl = %q, want es", capturedLangs[0])
	}
	if capturedClients[0] != "tw-ob" {
		t.Errorf("client = %q, want tw-ob", capturedClients[0])
	}
}

func TestSynthesizeChunksLongText(t *testing.T) {
	var queries []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Write([]byte("x"))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL}, testLogger())

	text := strings.TrimSpace(strings.Repeat("palabra ", 60))
	audio, err := client.Synthesize(context.Background(), text, "es")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if len(queries) < 2 {
		t.Fatalf("endpoint hit %d times, want chunked requests", len(queries))
	}
	if len(audio.Data) != len(queries) {
		t.Errorf("Data length = %d, want one byte per chunk (%d)", len(audio.Data), len(queries))
	}

	var rejoined []string
	for _, q := range queries {
		if len(q) > maxChunkLen {
			t.Errorf("chunk length %d exceeds limit %d", len(q), maxChunkLen)
		}
		rejoined = append(rejoined, q)
	}
	if strings.Join(rejoined, " ") != text {
		t.Errorf("chunks do not reassemble the input text")
	}
}

func TestSynthesizeInvalidInput(t *testing.T) {
	client := NewClient(Config{}, testLogger())

	tests := []struct {
		name string
		text string
		lang string
	}{
		{"empty text", "", "es"},
		{"whitespace text", "  \t ", "es"},
		{"empty language", "hola", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Synthesize(context.Background(), tt.text, tt.lang); err == nil {
				t.Error("Synthesize() error = nil, want validation error")
			}
		})
	}
}

func TestSynthesizeEndpointFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "HTTP error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(Config{Endpoint: server.URL}, testLogger())

			if _, err := client.Synthesize(context.Background(), "hola", "es"); err == nil {
				t.Error("Synthesize() error = nil, want fetch error")
			}
		})
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "short text stays whole",
			text:  "hello world",
			limit: 200,
			want:  []string{"hello world"},
		},
		{
			name:  "splits at word boundary",
			text:  "aaa bbb ccc",
			limit: 7,
			want:  []string{"aaa bbb", "ccc"},
		},
		{
			name:  "oversized word is hard-split",
			text:  "abcdefghij",
			limit: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "collapses runs of whitespace",
			text:  "  a \n b\t\tc  ",
			limit: 200,
			want:  []string{"a b c"},
		},
		{
			name:  "empty input",
			text:  "   ",
			limit: 200,
			want:  nil,
		},
		{
			name:  "limit counts runes not bytes",
			text:  "你好 世界",
			limit: 2,
			want:  []string{"你好", "世界"},
		},
		{
			name:  "spaceless text under the rune limit stays whole",
			text:  strings.Repeat("日", 80),
			limit: 200,
			want:  []string{strings.Repeat("日", 80)},
		},
		{
			name:  "hard split lands between runes",
			text:  strings.Repeat("日", 7),
			limit: 3,
			want:  []string{"日日日", "日日日", "日"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.text, tt.limit)

			if len(got) != len(tt.want) {
				t.Fatalf("splitText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitTextKeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("日", 250)

	chunks := splitText(text, 200)

	if len(chunks) != 2 {
		t.Fatalf("splitText() produced %d chunks, want 2", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if n := utf8.RuneCountInString(chunk); n > 200 {
			t.Errorf("chunk %d is %d runes, want at most 200", i, n)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("chunks do not reassemble the input text")
	}
}
