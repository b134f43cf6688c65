package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/praveen034u/Capstone/internal/audio"
	"github.com/praveen034u/Capstone/internal/extract"
	"github.com/praveen034u/Capstone/internal/speech"
)

// handleTranscribe implements the POST /v1/transcribe endpoint. The
// request is a multipart form with a "file" part and an optional
// "sample_rate" field. Producing no transcript is a 200 with a warning,
// not an error.
func (h *HTTPServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	if h.pipeline == nil {
		h.writeError(w, http.StatusServiceUnavailable, "feature disabled: speech recognition credentials not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		h.writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	declaredRate := 0
	if raw := r.FormValue("sample_rate"); raw != "" {
		declaredRate, err = strconv.Atoi(raw)
		if err != nil || declaredRate <= 0 {
			h.writeError(w, http.StatusBadRequest, "sample_rate must be a positive integer")
			return
		}
	}

	h.metrics.RecordAudioReceived(len(data))

	clip := speech.Clip{Data: data, SampleRate: declaredRate}
	attemptCount := len(h.pipeline.BuildAttempts(clip))
	fingerprint := audio.Fingerprint(data)

	startTime := time.Now()
	transcript, ok := h.pipeline.Transcribe(r.Context(), clip)
	duration := time.Since(startTime).Seconds()

	if !ok {
		h.metrics.RecordTranscription("no_transcript", duration, attemptCount)
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id":  sessionID,
			"warning":     "no transcript",
			"fingerprint": fingerprint,
			"attempts":    attemptCount,
		})
		return
	}

	if err := h.sessions.SetInput(r.Context(), sessionID, transcript); err != nil {
		h.logger.Warn("Failed to store transcript in session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	h.metrics.RecordTranscription("success", duration, attemptCount)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":  sessionID,
		"transcript":  transcript,
		"fingerprint": fingerprint,
		"attempts":    attemptCount,
	})
}

// handleExtract implements the POST /v1/extract endpoint. Unsupported
// file types and empty documents are warnings, not errors.
func (h *HTTPServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if format == "" {
		format = "none"
	}

	if !extract.Supported(header.Filename) {
		h.metrics.RecordExtraction(format, "unsupported")
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sessionID,
			"warning":    "unsupported file type",
			"filename":   header.Filename,
		})
		return
	}

	text, ok := extract.Text(file, header.Filename)
	if !ok {
		h.metrics.RecordExtraction(format, "no_text")
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sessionID,
			"warning":    "no text",
			"filename":   header.Filename,
		})
		return
	}

	if err := h.sessions.SetInput(r.Context(), sessionID, text); err != nil {
		h.logger.Warn("Failed to store extracted text in session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	h.metrics.RecordExtraction(format, "success")
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"text":       text,
		"filename":   header.Filename,
	})
}

type textRequest struct {
	Text string `json:"text"`
}

// handleText implements the POST /v1/text endpoint, storing typed input
// directly in the session.
func (h *HTTPServer) handleText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		h.writeError(w, http.StatusBadRequest, "text cannot be empty")
		return
	}

	if err := h.sessions.SetInput(r.Context(), sessionID, text); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to store text")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"text":       text,
	})
}

type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// handleTranslate implements the POST /v1/translate endpoint. When the
// request carries no text, the session's input slot is translated. A
// provider failure degrades to a warning so the stored text is not lost.
func (h *HTTPServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	if h.translator == nil {
		h.writeError(w, http.StatusServiceUnavailable, "feature disabled: translation credentials not configured")
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Language == "" {
		h.writeError(w, http.StatusBadRequest, "language is required")
		return
	}
	language, ok := h.config.Language(req.Language)
	if !ok {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language: %s", req.Language))
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		snapshot, err := h.sessions.Snapshot(r.Context(), sessionID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to read session")
			return
		}
		text = snapshot.InputText
	}
	if text == "" {
		h.writeError(w, http.StatusBadRequest, "no text to translate")
		return
	}

	startTime := time.Now()
	translated, err := h.translator.Translate(r.Context(), text, language.Name)
	duration := time.Since(startTime).Seconds()

	if err != nil {
		h.metrics.RecordTranslation("failure", duration)
		h.logger.Warn("Translation failed",
			slog.String("session_id", sessionID),
			slog.String("language", language.Name),
			slog.String("error", err.Error()),
		)
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sessionID,
			"warning":    "translation unavailable",
		})
		return
	}

	if err := h.sessions.SetTranslated(r.Context(), sessionID, translated); err != nil {
		h.logger.Warn("Failed to store translation in session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	h.metrics.RecordTranslation("success", duration)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":      sessionID,
		"translated_text": translated,
		"language":        language.Name,
		"language_code":   language.Code,
	})
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
}

// handleSynthesize implements the POST /v1/synthesize endpoint. With no
// text in the request it speaks the session's preferred slot. Success
// returns the raw MP3 bytes as a download.
func (h *HTTPServer) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		snapshot, err := h.sessions.Snapshot(r.Context(), sessionID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to read session")
			return
		}
		text, _ = snapshot.SpeechText()
	}
	if text == "" {
		h.writeError(w, http.StatusBadRequest, "no text to speak")
		return
	}

	languageCode := strings.TrimSpace(req.LanguageCode)
	if languageCode == "" {
		languageCode = h.defaultLanguageCode()
	}

	result, err := h.synthesizer.Synthesize(r.Context(), text, languageCode)
	if err != nil {
		h.metrics.RecordSynthesis("failure", 0)
		h.logger.Warn("Speech synthesis failed",
			slog.String("session_id", sessionID),
			slog.String("language_code", languageCode),
			slog.String("error", err.Error()),
		)
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sessionID,
			"warning":    "speech synthesis unavailable",
		})
		return
	}

	h.metrics.RecordSynthesis("success", len(result.Data))

	w.Header().Set("Content-Type", result.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tts_%s.mp3", languageCode))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if _, err := w.Write(result.Data); err != nil {
		h.logger.Warn("Failed to write audio response", slog.String("error", err.Error()))
	}
}

// handleLanguages implements the GET /v1/languages endpoint
func (h *HTTPServer) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": h.config.Languages,
		"default":   h.defaultLanguageCode(),
	})
}

// handleSession implements the GET /v1/session endpoint
func (h *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)

	snapshot, err := h.sessions.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"session":    snapshot,
	})
}
