package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/praveen034u/Capstone/internal/audio"
)

// fakeRecognizer replays canned per-call results and records every
// configuration it was invoked with.
type fakeRecognizer struct {
	results [][]Result
	errs    []error
	calls   []RecognitionConfig
}

func (f *fakeRecognizer) Recognize(ctx context.Context, cfg RecognitionConfig, audioData []byte) ([]Result, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, cfg)

	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	var results []Result
	if idx < len(f.results) {
		results = f.results[idx]
	}
	return results, err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func singleTranscript(text string) []Result {
	return []Result{{Alternatives: []Alternative{{Transcript: text, Confidence: 0.9}}}}
}

func wavClip(t *testing.T, sampleRate int) []byte {
	t.Helper()
	samples := make([]int16, 160)
	data, err := audio.EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return data
}

func TestBuildAttempts(t *testing.T) {
	pipeline := NewPipeline(nil, PipelineConfig{
		PrimaryLanguage:    "en-US",
		AlternateLanguages: []string{"hi-IN", "es-ES"},
	}, testLogger())

	oggClip := []byte("OggS rest of stream")
	webmClip := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("webm body")...)

	tests := []struct {
		name          string
		clip          Clip
		wantEncodings []Encoding
		wantRates     []int
	}{
		{
			name:          "nil clip gets only the unspecified attempt",
			clip:          Clip{Data: nil, SampleRate: 0},
			wantEncodings: []Encoding{EncodingUnspecified},
			wantRates:     []int{0},
		},
		{
			name:          "ogg uses declared rate only",
			clip:          Clip{Data: oggClip, SampleRate: 48000},
			wantEncodings: []Encoding{EncodingOggOpus, EncodingUnspecified},
			wantRates:     []int{48000, 48000},
		},
		{
			name:          "ogg without declared rate omits it",
			clip:          Clip{Data: oggClip},
			wantEncodings: []Encoding{EncodingOggOpus, EncodingUnspecified},
			wantRates:     []int{0, 0},
		},
		{
			name:          "webm uses declared rate only",
			clip:          Clip{Data: webmClip, SampleRate: 48000},
			wantEncodings: []Encoding{EncodingWebMOpus, EncodingUnspecified},
			wantRates:     []int{48000, 48000},
		},
		{
			name:          "unknown container gets only the unspecified attempt",
			clip:          Clip{Data: []byte("not audio at all"), SampleRate: 8000},
			wantEncodings: []Encoding{EncodingUnspecified},
			wantRates:     []int{8000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := pipeline.BuildAttempts(tt.clip)

			if len(attempts) != len(tt.wantEncodings) {
				t.Fatalf("BuildAttempts() returned %d attempts, want %d", len(attempts), len(tt.wantEncodings))
			}

			for i, attempt := range attempts {
				if attempt.Encoding != tt.wantEncodings[i] {
					t.Errorf("attempt %d encoding = %q, want %q", i, attempt.Encoding, tt.wantEncodings[i])
				}
				if attempt.SampleRateHertz != tt.wantRates[i] {
					t.Errorf("attempt %d sample rate = %d, want %d", i, attempt.SampleRateHertz, tt.wantRates[i])
				}
				if attempt.LanguageCode != "en-US" {
					t.Errorf("attempt %d language = %q, want en-US", i, attempt.LanguageCode)
				}
				if len(attempt.AlternativeLanguageCodes) != 2 {
					t.Errorf("attempt %d alternates = %d, want 2", i, len(attempt.AlternativeLanguageCodes))
				}
				if !attempt.EnableAutomaticPunctuation {
					t.Errorf("attempt %d punctuation disabled", i)
				}
				if attempt.AudioChannelCount != 1 {
					t.Errorf("attempt %d channels = %d, want 1", i, attempt.AudioChannelCount)
				}
			}
		})
	}
}

func TestBuildAttemptsWAVSniffsRate(t *testing.T) {
	pipeline := NewPipeline(nil, PipelineConfig{}, testLogger())
	clip := Clip{Data: wavClip(t, 16000)}

	attempts := pipeline.BuildAttempts(clip)
	if len(attempts) != 2 {
		t.Fatalf("BuildAttempts() returned %d attempts, want 2", len(attempts))
	}

	if attempts[0].Encoding != EncodingLinear16 {
		t.Errorf("lead encoding = %q, want %q", attempts[0].Encoding, EncodingLinear16)
	}
	if attempts[0].SampleRateHertz != 16000 {
		t.Errorf("lead sample rate = %d, want sniffed 16000", attempts[0].SampleRateHertz)
	}

	// The trailing unspecified attempt carries only the declared rate,
	// which is absent here.
	if attempts[1].Encoding != EncodingUnspecified {
		t.Errorf("tail encoding = %q, want %q", attempts[1].Encoding, EncodingUnspecified)
	}
	if attempts[1].SampleRateHertz != 0 {
		t.Errorf("tail sample rate = %d, want 0", attempts[1].SampleRateHertz)
	}
}

func TestBuildAttemptsDeclaredRateWins(t *testing.T) {
	pipeline := NewPipeline(nil, PipelineConfig{}, testLogger())
	clip := Clip{Data: wavClip(t, 16000), SampleRate: 44100}

	attempts := pipeline.BuildAttempts(clip)
	if len(attempts) != 2 {
		t.Fatalf("BuildAttempts() returned %d attempts, want 2", len(attempts))
	}
	if attempts[0].SampleRateHertz != 44100 {
		t.Errorf("lead sample rate = %d, want declared 44100", attempts[0].SampleRateHertz)
	}
	if attempts[1].SampleRateHertz != 44100 {
		t.Errorf("tail sample rate = %d, want declared 44100", attempts[1].SampleRateHertz)
	}
}

func TestTranscribeFirstNonEmptyWins(t *testing.T) {
	fake := &fakeRecognizer{
		results: [][]Result{singleTranscript("hello world")},
	}
	pipeline := NewPipeline(fake, PipelineConfig{}, testLogger())

	transcript, ok := pipeline.Transcribe(context.Background(), Clip{Data: wavClip(t, 16000)})
	if !ok {
		t.Fatal("Transcribe() ok = false, want true")
	}
	if transcript != "hello world" {
		t.Errorf("Transcribe() = %q, want %q", transcript, "hello world")
	}
	if len(fake.calls) != 1 {
		t.Errorf("recognizer called %d times, want 1 (later attempts must not run)", len(fake.calls))
	}
}

func TestTranscribeFallsBackAfterError(t *testing.T) {
	fake := &fakeRecognizer{
		results: [][]Result{nil, singleTranscript("recovered")},
		errs:    []error{fmt.Errorf("simulated provider failure"), nil},
	}
	pipeline := NewPipeline(fake, PipelineConfig{}, testLogger())

	transcript, ok := pipeline.Transcribe(context.Background(), Clip{Data: wavClip(t, 16000)})
	if !ok {
		t.Fatal("Transcribe() ok = false, want true")
	}
	if transcript != "recovered" {
		t.Errorf("Transcribe() = %q, want %q", transcript, "recovered")
	}
	if len(fake.calls) != 2 {
		t.Errorf("recognizer called %d times, want 2", len(fake.calls))
	}
	if fake.calls[1].Encoding != EncodingUnspecified {
		t.Errorf("second attempt encoding = %q, want %q", fake.calls[1].Encoding, EncodingUnspecified)
	}
}

func TestTranscribeNoSpeech(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeRecognizer
	}{
		{
			name: "every attempt errors",
			fake: &fakeRecognizer{
				errs: []error{fmt.Errorf("boom"), fmt.Errorf("boom again")},
			},
		},
		{
			name: "empty results",
			fake: &fakeRecognizer{},
		},
		{
			name: "whitespace-only transcript",
			fake: &fakeRecognizer{
				results: [][]Result{singleTranscript("   "), singleTranscript(" \t ")},
			},
		},
		{
			name: "segments without alternatives",
			fake: &fakeRecognizer{
				results: [][]Result{{{Alternatives: nil}}, {{Alternatives: nil}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := NewPipeline(tt.fake, PipelineConfig{}, testLogger())

			transcript, ok := pipeline.Transcribe(context.Background(), Clip{Data: wavClip(t, 16000)})
			if ok {
				t.Errorf("Transcribe() ok = true, want false")
			}
			if transcript != "" {
				t.Errorf("Transcribe() = %q, want empty", transcript)
			}
			if len(tt.fake.calls) != 2 {
				t.Errorf("recognizer called %d times, want all 2 attempts", len(tt.fake.calls))
			}
		})
	}
}

func TestJoinResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{
			name: "joins top alternatives with single space",
			results: []Result{
				{Alternatives: []Alternative{{Transcript: "hello"}, {Transcript: "ignored"}}},
				{Alternatives: []Alternative{{Transcript: "world"}}},
			},
			want: "hello world",
		},
		{
			name: "skips segments without alternatives",
			results: []Result{
				{Alternatives: []Alternative{{Transcript: "kept"}}},
				{},
				{Alternatives: []Alternative{{Transcript: "also kept"}}},
			},
			want: "kept also kept",
		},
		{
			name:    "empty input",
			results: nil,
			want:    "",
		},
		{
			name: "trims outer whitespace",
			results: []Result{
				{Alternatives: []Alternative{{Transcript: "  padded  "}}},
			},
			want: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinResults(tt.results); got != tt.want {
				t.Errorf("joinResults() = %q, want %q", got, tt.want)
			}
		})
	}
}
