// Package speech implements speech-to-text provider clients and the
// container-to-encoding fallback ladder that drives them. It builds one
// recognition attempt per sniffed container plus a final unspecified
// attempt, and accepts the first non-empty transcript.
package speech
