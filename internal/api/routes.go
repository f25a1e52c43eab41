package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/learners", s.handleRegisterLearner)
		r.Get("/learners", s.handleListLearners)

		r.Get("/catalog/lessons", s.handleListLessons)
		r.Get("/catalog/lessons/{id}", s.handleGetLesson)
		r.Get("/catalog/topics", s.handleListTopics)
		r.Get("/catalog/paths", s.handleListPaths)
		r.Get("/catalog/paths/{id}", s.handleGetPath)

		// Everything below needs an active learner session.
		r.Group(func(r chi.Router) {
			r.Use(s.learnerMiddleware)

			r.Get("/learners/me", s.handleCurrentLearner)
			r.Put("/learners/me/path", s.handleSelectPath)
			r.Delete("/learners/me", s.handleDeleteLearner)

			r.Post("/lessons/{id}/quiz", s.handleSubmitQuiz)

			r.Get("/progress", s.handleGetProgress)
			r.Get("/progress/history", s.handleQuizHistory)
			r.Post("/progress/import", s.handleImportSnapshot)
			r.Post("/progress/reset", s.handleResetProgress)

			r.Get("/analysis", s.handleAnalysis)
			r.Get("/recommendation", s.handleRecommendation)

			r.Post("/speech", s.handleSpeech)
			r.Post("/tutor", s.handleTutor)
		})
	})

	return r
}
