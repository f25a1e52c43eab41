package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
)

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")

	var req struct {
		Score          int `json:"score"`
		TotalQuestions int `json:"totalQuestions"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	learner := learnerFromContext(r.Context())
	submission, err := s.Progress.SubmitQuiz(r.Context(), learner.ID, lessonID, req.Score, req.TotalQuestions)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, submission)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	progress, err := s.Progress.GetProgress(r.Context(), learner.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())
	q := r.URL.Query()

	filter := models.QuizResultFilter{
		LearnerID: learner.ID,
		Topic:     q.Get("topic"),
		OrderBy:   q.Get("order_by"),
		OrderDir:  q.Get("order_dir"),
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be an RFC 3339 timestamp"))
			return
		}
		filter.Since = &since
	}
	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("min_score", "must be an integer"))
			return
		}
		filter.MinScore = &n
	}
	if v := q.Get("max_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("max_score", "must be an integer"))
			return
		}
		filter.MaxScore = &n
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	results, err := s.Progress.QuizHistory(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if results == nil {
		results = []models.QuizResult{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read snapshot body"))
		return
	}

	progress, err := s.Progress.ImportSnapshot(r.Context(), learner.ID, body)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learner := learnerFromContext(r.Context())

	if err := s.Progress.Reset(r.Context(), learner.ID); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("progress reset via API: learner_id=%d", learner.ID)
	w.WriteHeader(http.StatusNoContent)
}
