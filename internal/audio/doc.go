// Package audio provides container sniffing, WAV header inspection, and
// content fingerprinting for captured audio clips. Classification reads
// only the leading bytes and never parses a full container.
package audio
