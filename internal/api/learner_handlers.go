package api

import (
	"net/http"

	"github.com/sgharlow/adaptlearn/internal/logger"
)

func (s *Server) handleRegisterLearner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	learner, err := s.Learners.Register(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setLearnerCookie(w, learner.ID)
	writeJSON(w, r, http.StatusCreated, learner)
}

func (s *Server) handleListLearners(w http.ResponseWriter, r *http.Request) {
	learners, err := s.Learners.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"learners": learners})
}

func (s *Server) handleCurrentLearner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, learnerFromContext(r.Context()))
}

func (s *Server) handleSelectPath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PathID string `json:"pathId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	learner := learnerFromContext(r.Context())
	updated, err := s.Learners.SelectPath(r.Context(), learner.ID, req.PathID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteLearner(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	learner := learnerFromContext(r.Context())

	if err := s.Learners.Delete(r.Context(), learner.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("learner deleted: id=%d", learner.ID)
	clearLearnerCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
