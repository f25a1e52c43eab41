package services

import (
	"context"
	"time"

	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/engine"
	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/jobs"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
	"github.com/sgharlow/adaptlearn/internal/snapshot"
)

// ProgressService handles quiz grading and progress persistence
type ProgressService interface {
	GetProgress(ctx context.Context, learnerID int64) (*models.UserProgress, error)
	SubmitQuiz(ctx context.Context, learnerID int64, lessonID string, score, totalQuestions int) (*models.QuizSubmission, error)
	QuizHistory(ctx context.Context, filter models.QuizResultFilter) ([]models.QuizResult, error)
	ImportSnapshot(ctx context.Context, learnerID int64, data []byte) (*models.UserProgress, error)
	Reset(ctx context.Context, learnerID int64) error
}

type progressService struct {
	progress        repository.ProgressRepository
	catalog         *catalog.Loader
	recommendations RecommendationService
	jobQueue        jobs.JobQueue
}

// NewProgressService creates a new ProgressService. The job queue may
// be nil, which disables narration prefetch.
func NewProgressService(
	progress repository.ProgressRepository,
	catalog *catalog.Loader,
	recommendations RecommendationService,
	jobQueue jobs.JobQueue,
) ProgressService {
	return &progressService{
		progress:        progress,
		catalog:         catalog,
		recommendations: recommendations,
		jobQueue:        jobQueue,
	}
}

func (s *progressService) GetProgress(ctx context.Context, learnerID int64) (*models.UserProgress, error) {
	progress, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}
	return progress, nil
}

func (s *progressService) SubmitQuiz(ctx context.Context, learnerID int64, lessonID string, score, totalQuestions int) (*models.QuizSubmission, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting quiz: learner_id=%d, lesson=%s, score=%d/%d", learnerID, lessonID, score, totalQuestions)

	if totalQuestions < 1 {
		return nil, errors.NewValidationError("totalQuestions", "must be at least 1")
	}
	if score < 0 {
		return nil, errors.NewValidationError("score", "must not be negative")
	}

	lesson, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}

	progress, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	now := time.Now().UTC()
	pct := engine.Percentage(score, totalQuestions)

	var existing *models.TopicMastery
	if tm, ok := progress.TopicMastery[lesson.Topic]; ok {
		existing = &tm
	}
	mastery := engine.ApplyQuizResult(existing, lesson.Topic, pct, s.catalog.TopicLessonCount(lesson.Topic), now)

	result := models.QuizResult{
		LessonID:       lessonID,
		Score:          score,
		TotalQuestions: totalQuestions,
		CompletedAt:    now,
	}
	if err := s.progress.SaveQuizResult(ctx, learnerID, result, mastery); err != nil {
		log.Error("failed to save quiz result: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("quiz graded: lesson=%s, percentage=%d, topic=%s, mastery=%d",
		lessonID, pct, lesson.Topic, mastery.Score)

	s.prefetchNarration(ctx, learnerID, progress.CurrentPath)

	return &models.QuizSubmission{
		LessonID:   lessonID,
		Topic:      lesson.Topic,
		Percentage: pct,
		Level:      engine.Classify(pct),
		Mastery:    mastery,
	}, nil
}

// prefetchNarration warms the narration cache with the voice line for
// the learner's next recommendation. Best effort.
func (s *progressService) prefetchNarration(ctx context.Context, learnerID int64, pathID string) {
	if s.jobQueue == nil || s.recommendations == nil || pathID == "" {
		return
	}
	log := logger.FromContext(ctx)

	rec, err := s.recommendations.NextLesson(ctx, learnerID, pathID)
	if err != nil {
		log.Warn("skipping narration prefetch, recommendation failed: %v", err)
		return
	}
	if err := s.jobQueue.EnqueueNarration(rec.VoiceAnnouncement); err != nil {
		log.Warn("failed to enqueue narration prefetch: %v", err)
	}
}

func (s *progressService) QuizHistory(ctx context.Context, filter models.QuizResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx)

	if filter.MinScore != nil && *filter.MinScore < 0 {
		return nil, errors.NewValidationError("minScore", "must not be negative")
	}
	if filter.MinScore != nil && filter.MaxScore != nil && *filter.MaxScore < *filter.MinScore {
		return nil, errors.NewValidationError("maxScore", "must not be below minScore")
	}
	if filter.Limit < 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	results, err := s.progress.ListQuizResults(ctx, filter)
	if err != nil {
		log.Error("failed to list quiz results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func (s *progressService) ImportSnapshot(ctx context.Context, learnerID int64, data []byte) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("importing snapshot: learner_id=%d, %d bytes", learnerID, len(data))

	imported, err := snapshot.Parse(data)
	if err != nil {
		return nil, errors.NewValidationError("snapshot", err.Error())
	}

	existing, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	if imported.CurrentPath != "" {
		if _, ok := s.catalog.Path(imported.CurrentPath); !ok {
			return nil, errors.NewValidationError("snapshot", "currentPath references unknown path "+imported.CurrentPath)
		}
	}

	// Topic column backs history filtering; resolve it for known lessons.
	lessonTopics := make(map[string]string, len(imported.QuizResults))
	for lessonID := range imported.QuizResults {
		if lesson, ok := s.catalog.Lesson(lessonID); ok {
			lessonTopics[lessonID] = lesson.Topic
		}
	}

	if err := s.progress.ReplaceProgress(ctx, learnerID, *imported, lessonTopics); err != nil {
		log.Error("failed to replace progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("snapshot imported: learner_id=%d, %d completed lessons, %d quiz results",
		learnerID, len(imported.CompletedLessons), len(imported.QuizResults))
	return imported, nil
}

func (s *progressService) Reset(ctx context.Context, learnerID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("resetting progress: learner_id=%d", learnerID)

	existing, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("learner", learnerID)
	}

	if err := s.progress.Reset(ctx, learnerID); err != nil {
		log.Error("failed to reset progress: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("progress reset: learner_id=%d", learnerID)
	return nil
}
