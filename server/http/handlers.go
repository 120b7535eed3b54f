package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/w-h-a/librarian"
)

const (
	moderationRefusal = "I can only discuss topics related to books. Please use appropriate language."
	internalErrorBody = "An internal error occurred while processing your request."
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer   string `json:"answer"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Smart Librarian API"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(strings.TrimSpace(req.Query)) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query cannot be empty."})
		return
	}

	if s.moderator != nil {
		ok, err := s.moderator.Allowed(r.Context(), req.Query)
		if err != nil {
			// Fail closed when the gate itself is unavailable.
			slog.ErrorContext(r.Context(), "moderation check failed", "error", err)
			ok = false
		}
		if !ok {
			writeJSON(w, http.StatusOK, chatResponse{Answer: moderationRefusal})
			return
		}
	}

	// A fresh history per request keeps the endpoint stateless.
	conv := librarian.NewConversation()

	out, err := s.asker.Ask(r.Context(), req.Query, conv)
	if err != nil {
		// Never leak upstream error text to end users.
		slog.ErrorContext(r.Context(), "ask failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalErrorBody})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:   out.Text,
		Title:    out.Title,
		ImageURL: out.ImageURL,
	})
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Text)) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Text cannot be empty."})
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		slog.ErrorContext(r.Context(), "speech synthesis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalErrorBody})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio file is required"})
		return
	}
	defer file.Close()

	text, err := s.speech.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		slog.ErrorContext(r.Context(), "transcription failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalErrorBody})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
