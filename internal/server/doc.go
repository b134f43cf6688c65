// Package server implements the HTTP API for transcription, document
// extraction, translation, and speech synthesis. It routes requests to
// the provider adapters and provides monitoring/management endpoints.
package server
