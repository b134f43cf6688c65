package audio

import (
	"encoding/binary"
	"testing"
)

func TestClassify(t *testing.T) {
	wavData, err := EncodeWAV([]int16{100, -200, 300}, 8000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "encoded wav",
			data:     wavData,
			expected: FormatWAV,
		},
		{
			name:     "wav markers with arbitrary tail",
			data:     []byte("RIFF\x00\x00\x00\x00WAVEgarbage-not-a-real-fmt-chunk"),
			expected: FormatWAV,
		},
		{
			name:     "ogg magic",
			data:     []byte("OggS\x00\x02something"),
			expected: FormatOGG,
		},
		{
			name:     "ogg magic exactly four bytes",
			data:     []byte("OggS"),
			expected: FormatOGG,
		},
		{
			name:     "webm ebml magic",
			data:     []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x86},
			expected: FormatWebM,
		},
		{
			name:     "riff without wave tag",
			data:     []byte("RIFF\x00\x00\x00\x00AVI LIST"),
			expected: FormatUnknown,
		},
		{
			name:     "riff wave but under 12 bytes",
			data:     []byte("RIFF\x00\x00\x00\x00WAV"),
			expected: FormatUnknown,
		},
		{
			name:     "empty buffer",
			data:     []byte{},
			expected: FormatUnknown,
		},
		{
			name:     "nil buffer",
			data:     nil,
			expected: FormatUnknown,
		},
		{
			name:     "three bytes",
			data:     []byte{0x1A, 0x45, 0xDF},
			expected: FormatUnknown,
		},
		{
			name:     "plain text",
			data:     []byte("hello world this is not audio"),
			expected: FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.data)
			if got != tt.expected {
				t.Errorf("Classify() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatWAV, "wav"},
		{FormatOGG, "ogg"},
		{FormatWebM, "webm"},
		{FormatUnknown, "unknown"},
		{Format(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.expected {
			t.Errorf("Format(%d).String() = %q, expected %q", tt.format, got, tt.expected)
		}
	}
}

func TestSampleRate(t *testing.T) {
	wavData, err := EncodeWAV(make([]int16, 1600), 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	rate, ok := SampleRate(wavData)
	if !ok {
		t.Fatal("expected sample rate to be available")
	}
	if rate != 16000 {
		t.Errorf("expected 16000 Hz, got %d", rate)
	}
}

func TestSampleRateSkipsLeadingChunks(t *testing.T) {
	// Hand-build a RIFF/WAVE with a LIST chunk ahead of "fmt ".
	listBody := []byte("INFOISFT")
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:2], 1)      // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:4], 1)      // mono
	binary.LittleEndian.PutUint32(fmtBody[4:8], 44100)  // sample rate
	binary.LittleEndian.PutUint32(fmtBody[8:12], 88200) // byte rate
	binary.LittleEndian.PutUint16(fmtBody[12:14], 2)
	binary.LittleEndian.PutUint16(fmtBody[14:16], 16)

	data := []byte("RIFF\x00\x00\x00\x00WAVE")
	data = append(data, []byte("LIST")...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(listBody)))
	data = append(data, listBody...)
	data = append(data, []byte("fmt ")...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(fmtBody)))
	data = append(data, fmtBody...)

	rate, ok := SampleRate(data)
	if !ok {
		t.Fatal("expected sample rate to be available")
	}
	if rate != 44100 {
		t.Errorf("expected 44100 Hz, got %d", rate)
	}
}

func TestSampleRateUnavailable(t *testing.T) {
	wavData, err := EncodeWAV(make([]int16, 800), 8000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "not a wav",
			data: []byte("OggS\x00\x02data"),
		},
		{
			name: "truncated right after the wave tag",
			data: wavData[:12],
		},
		{
			name: "truncated inside the fmt chunk",
			data: wavData[:20],
		},
		{
			name: "zero sample rate",
			data: func() []byte {
				corrupt := append([]byte(nil), wavData...)
				binary.LittleEndian.PutUint32(corrupt[24:28], 0)
				return corrupt
			}(),
		},
		{
			name: "fmt chunk never found",
			data: []byte("RIFF\x00\x00\x00\x00WAVEjunkjunkjunkjunk"),
		},
		{
			name: "empty buffer",
			data: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := SampleRate(tt.data)
			if ok {
				t.Errorf("expected no sample rate, got %d", rate)
			}
			if rate != 0 {
				t.Errorf("expected zero rate, got %d", rate)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("clip one"))
	b := Fingerprint([]byte("clip two"))

	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d (%q)", len(a), a)
	}

	if a == b {
		t.Error("different contents produced the same fingerprint")
	}

	if a != Fingerprint([]byte("clip one")) {
		t.Error("same contents produced different fingerprints")
	}
}
