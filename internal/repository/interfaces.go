package repository

import (
	"context"
	"time"

	"github.com/sgharlow/adaptlearn/internal/models"
)

// LearnerRepository handles learner account data access
type LearnerRepository interface {
	Get(ctx context.Context, id int64) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
	Upsert(ctx context.Context, name string) (*models.Learner, error)
	SetCurrentPath(ctx context.Context, id int64, pathID string) error
	Delete(ctx context.Context, id int64) error
}

// ProgressRepository handles per-learner progress state. The stored state
// is one logical record per learner: read fully before an engine call,
// written fully after a mutation.
type ProgressRepository interface {
	GetProgress(ctx context.Context, learnerID int64) (*models.UserProgress, error)
	SaveQuizResult(ctx context.Context, learnerID int64, result models.QuizResult, mastery models.TopicMastery) error
	ListQuizResults(ctx context.Context, filter models.QuizResultFilter) ([]models.QuizResult, error)
	ReplaceProgress(ctx context.Context, learnerID int64, progress models.UserProgress, lessonTopics map[string]string) error
	Reset(ctx context.Context, learnerID int64) error
}

// NarrationRepository caches synthesized speech by content hash.
type NarrationRepository interface {
	Get(ctx context.Context, textHash string) ([]byte, error)
	Put(ctx context.Context, textHash, voice string, audio []byte) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}
