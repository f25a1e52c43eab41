package services

import (
	"context"
	"strings"

	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
)

// LearnerService handles learner account business logic
type LearnerService interface {
	Register(ctx context.Context, name string) (*models.Learner, error)
	Get(ctx context.Context, id int64) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
	SelectPath(ctx context.Context, id int64, pathID string) (*models.Learner, error)
	Delete(ctx context.Context, id int64) error
}

type learnerService struct {
	learners repository.LearnerRepository
	catalog  *catalog.Loader
}

// NewLearnerService creates a new LearnerService
func NewLearnerService(learners repository.LearnerRepository, catalog *catalog.Loader) LearnerService {
	return &learnerService{learners: learners, catalog: catalog}
}

func (s *learnerService) Register(ctx context.Context, name string) (*models.Learner, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	if len(name) > 64 {
		return nil, errors.NewValidationError("name", "must be at most 64 characters")
	}

	log.Debug("registering learner: name=%s", name)
	learner, err := s.learners.Upsert(ctx, name)
	if err != nil {
		log.Error("failed to register learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return learner, nil
}

func (s *learnerService) Get(ctx context.Context, id int64) (*models.Learner, error) {
	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}
	return learner, nil
}

func (s *learnerService) List(ctx context.Context) ([]models.Learner, error) {
	learners, err := s.learners.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return learners, nil
}

func (s *learnerService) SelectPath(ctx context.Context, id int64, pathID string) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting path: learner_id=%d, path=%s", id, pathID)

	if _, ok := s.catalog.Path(pathID); !ok {
		return nil, errors.NewNotFoundError("path", pathID)
	}

	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}

	if err := s.learners.SetCurrentPath(ctx, id, pathID); err != nil {
		log.Error("failed to set current path: %v", err)
		return nil, errors.NewInternalError(err)
	}
	learner.CurrentPath = pathID
	return learner, nil
}

func (s *learnerService) Delete(ctx context.Context, id int64) error {
	learner, err := s.learners.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if learner == nil {
		return errors.NewNotFoundError("learner", id)
	}
	if err := s.learners.Delete(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
