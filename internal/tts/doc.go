// Package tts synthesizes speech through the public translate TTS
// endpoint. Long inputs are split at word boundaries and the returned
// MP3 fragments are concatenated in order.
package tts
