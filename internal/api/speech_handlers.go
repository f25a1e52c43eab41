package api

import (
	"net/http"

	"github.com/sgharlow/adaptlearn/internal/logger"
)

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	audio, err := s.Narration.Narrate(r.Context(), req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := w.Write(audio); err != nil {
		log.Warn("failed to write audio response: %v", err)
	}
}

func (s *Server) handleTutor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LessonID string `json:"lessonId"`
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	answer, err := s.Tutor.Ask(r.Context(), req.LessonID, req.Question)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"answer": answer})
}
