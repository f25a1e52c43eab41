package services

import (
	"context"
	"strings"

	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/tutor"
)

// TutorService answers learner questions grounded in catalog lessons
type TutorService interface {
	Ask(ctx context.Context, lessonID, question string) (string, error)
	Enabled() bool
}

type tutorService struct {
	catalog *catalog.Loader
	client  tutor.Client
}

// NewTutorService creates a new TutorService. The tutor client may be
// nil when chat is not configured.
func NewTutorService(catalog *catalog.Loader, client tutor.Client) TutorService {
	return &tutorService{catalog: catalog, client: client}
}

func (s *tutorService) Enabled() bool {
	return s.client != nil
}

func (s *tutorService) Ask(ctx context.Context, lessonID, question string) (string, error) {
	log := logger.FromContext(ctx)

	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.NewValidationError("question", "must not be empty")
	}
	if len(question) > 2048 {
		return "", errors.NewValidationError("question", "must be at most 2048 characters")
	}

	lesson, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return "", errors.NewNotFoundError("lesson", lessonID)
	}
	if s.client == nil {
		return "", errors.NewUnavailableError("tutor", nil)
	}

	log.Debug("tutor question: lesson=%s, %d chars", lessonID, len(question))
	answer, err := s.client.Ask(ctx, lesson, question)
	if err != nil {
		log.Error("tutor request failed: %v", err)
		return "", err
	}
	return answer, nil
}
