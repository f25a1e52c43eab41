package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sgharlow/adaptlearn/internal/errors"
)

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	lessons := s.Catalog.Lessons()
	if topic != "" {
		lessons = s.Catalog.LessonsByTopic(topic)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"lessons": lessons})
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	type topicSummary struct {
		Topic       string `json:"topic"`
		LessonCount int    `json:"lessonCount"`
	}

	topics := s.Catalog.Topics()
	out := make([]topicSummary, 0, len(topics))
	for _, topic := range topics {
		out = append(out, topicSummary{Topic: topic, LessonCount: s.Catalog.TopicLessonCount(topic)})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"topics": out})
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lesson, ok := s.Catalog.Lesson(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("lesson", id))
		return
	}
	writeJSON(w, r, http.StatusOK, lesson)
}

func (s *Server) handleListPaths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"paths": s.Catalog.Paths()})
}

func (s *Server) handleGetPath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, ok := s.Catalog.Path(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("path", id))
		return
	}
	writeJSON(w, r, http.StatusOK, path)
}
