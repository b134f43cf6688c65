package audio

import "bytes"

// Format identifies the container of an audio byte buffer.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatOGG
	FormatWebM
)

// String returns the lowercase container name.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatOGG:
		return "ogg"
	case FormatWebM:
		return "webm"
	default:
		return "unknown"
	}
}

var (
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
	oggMagic  = []byte("OggS")
	ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}
)

// Classify inspects the leading bytes of data and reports its container.
// It is a pure function of the byte prefix: a WAV needs at least 12 bytes
// (RIFF marker plus WAVE tag), OGG and WebM need their 4-byte magic.
// Anything shorter than 4 bytes, and any unrecognized prefix, classifies
// as FormatUnknown.
func Classify(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], riffMagic) && bytes.Equal(data[8:12], waveMagic):
		return FormatWAV
	case len(data) >= 4 && bytes.Equal(data[0:4], oggMagic):
		return FormatOGG
	case len(data) >= 4 && bytes.Equal(data[0:4], ebmlMagic):
		return FormatWebM
	default:
		return FormatUnknown
	}
}
