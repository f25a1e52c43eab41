package api

import (
	"net/http"
)

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())

	analysis, err := s.Recommendations.Analyze(r.Context(), learner.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, analysis)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	learner := learnerFromContext(r.Context())
	pathID := r.URL.Query().Get("path")

	rec, err := s.Recommendations.NextLesson(r.Context(), learner.ID, pathID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}
