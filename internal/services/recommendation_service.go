package services

import (
	"context"

	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/engine"
	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
)

// RecommendationService runs gap analysis and next-lesson selection
// over a learner's stored progress.
type RecommendationService interface {
	Analyze(ctx context.Context, learnerID int64) (*models.GapAnalysis, error)
	NextLesson(ctx context.Context, learnerID int64, pathID string) (*models.EnhancedRecommendation, error)
}

type recommendationService struct {
	progress repository.ProgressRepository
	catalog  *catalog.Loader
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(progress repository.ProgressRepository, catalog *catalog.Loader) RecommendationService {
	return &recommendationService{progress: progress, catalog: catalog}
}

func (s *recommendationService) Analyze(ctx context.Context, learnerID int64) (*models.GapAnalysis, error) {
	log := logger.FromContext(ctx)
	log.Debug("analyzing gaps: learner_id=%d", learnerID)

	progress, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	analysis := engine.AnalyzeGaps(*progress, s.catalog.Topics(), s.catalog.Lessons())
	log.Debug("analysis done: %d gaps, %d strengths, overall=%d",
		len(analysis.Gaps), len(analysis.Strengths), analysis.OverallMastery)
	return &analysis, nil
}

func (s *recommendationService) NextLesson(ctx context.Context, learnerID int64, pathID string) (*models.EnhancedRecommendation, error) {
	log := logger.FromContext(ctx)

	progress, err := s.progress.GetProgress(ctx, learnerID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("learner", learnerID)
	}

	if pathID == "" {
		pathID = progress.CurrentPath
	}
	if pathID == "" {
		return nil, errors.NewValidationError("path", "no learning path selected")
	}
	path, ok := s.catalog.Path(pathID)
	if !ok {
		return nil, errors.NewNotFoundError("path", pathID)
	}

	analysis := engine.AnalyzeGaps(*progress, s.catalog.Topics(), s.catalog.Lessons())
	rec := engine.Recommend(path, *progress, analysis, s.catalog.LessonIndex())

	log.Debug("recommendation: lesson=%s, type=%s, priority=%s, path_progress=%d",
		rec.NextLesson.ID, rec.ReasoningType, rec.Priority, rec.PathProgress)
	return &rec, nil
}
