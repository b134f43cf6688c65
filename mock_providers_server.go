package main

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type recognizeRequest struct {
	Config struct {
		Encoding                 string   `json:"encoding"`
		SampleRateHertz          int      `json:"sampleRateHertz"`
		LanguageCode             string   `json:"languageCode"`
		AlternativeLanguageCodes []string `json:"alternativeLanguageCodes"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

func recognizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error parsing request", http.StatusBadRequest)
		return
	}

	audioBytes, _ := base64.StdEncoding.DecodeString(req.Audio.Content)

	log.Printf("🎤 RECOGNIZE REQUEST RECEIVED:")
	log.Printf("  ═══════════════════════════════════")
	log.Printf("    Encoding: %s", req.Config.Encoding)
	log.Printf("    Sample Rate: %d Hz", req.Config.SampleRateHertz)
	log.Printf("    Language: %s", req.Config.LanguageCode)
	log.Printf("    Alternates: %v", req.Config.AlternativeLanguageCodes)
	log.Printf("    Audio Size: %d bytes", len(audioBytes))
	log.Printf("  ═══════════════════════════════════")

	// Simulate processing time
	time.Sleep(200 * time.Millisecond)

	response := map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"alternatives": []map[string]interface{}{
					{"transcript": "this is a test transcription of the uploaded clip", "confidence": 0.95},
				},
				"resultEndTime": "2.500s",
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)

	log.Printf("✅ RECOGNIZE RESPONSE SENT")
	log.Println("---")
}

func chatCompletionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error parsing request", http.StatusBadRequest)
		return
	}

	log.Printf("🌍 TRANSLATION REQUEST RECEIVED:")
	log.Printf("    Model: %s", req.Model)
	if len(req.Messages) > 0 {
		log.Printf("    Prompt: %.120q", req.Messages[0].Content)
	}

	response := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": "Hola, esta es una traducción de prueba.",
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)

	log.Printf("✅ TRANSLATION RESPONSE SENT")
	log.Println("---")
}

func translateTTSHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text := r.URL.Query().Get("q")
	lang := r.URL.Query().Get("tl")

	log.Printf("🔊 SYNTHESIS REQUEST RECEIVED:")
	log.Printf("    Language: %s", lang)
	log.Printf("    Text: %.120q", text)

	// A minimal fake MP3: ID3v2 header followed by frame sync bytes
	fakeMP3 := append([]byte{0x49, 0x44, 0x33, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 0xFF, 0xFB, 0x90, 0x00)

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(fakeMP3)

	log.Printf("✅ SYNTHESIS RESPONSE SENT: %d bytes", len(fakeMP3))
	log.Println("---")
}

func whisperHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	log.Printf("🎧 WHISPER REQUEST RECEIVED:")
	log.Printf("    Model: %s", r.FormValue("model"))
	log.Printf("    Language: %s", r.FormValue("language"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"text": "this is a test transcription from the whisper mock",
	})

	log.Printf("✅ WHISPER RESPONSE SENT")
	log.Println("---")
}

func main() {
	http.HandleFunc("/v1p1beta1/speech:recognize", recognizeHandler)
	http.HandleFunc("/v1/chat/completions", chatCompletionsHandler)
	http.HandleFunc("/translate_tts", translateTTSHandler)
	http.HandleFunc("/v1/audio/transcriptions", whisperHandler)

	port := ":9000"
	log.Printf("🚀 Mock Providers Server starting on port %s", port)
	log.Printf("📡 Speech:      http://localhost%s/v1p1beta1/speech:recognize", port)
	log.Printf("📡 Translation: http://localhost%s/v1/chat/completions", port)
	log.Printf("📡 Synthesis:   http://localhost%s/translate_tts", port)
	log.Printf("📡 Whisper:     http://localhost%s/v1/audio/transcriptions", port)
	log.Println("💡 Point speech.endpoint at http://localhost:9000/v1p1beta1/speech:recognize")
	log.Println("💡 Point translation.base_url at http://localhost:9000/v1")
	log.Println("💡 Point synthesis.endpoint at http://localhost:9000/translate_tts")

	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
