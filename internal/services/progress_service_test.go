package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
	"github.com/sgharlow/adaptlearn/internal/repository/sqlite"
	"github.com/sgharlow/adaptlearn/internal/services"
	"github.com/sgharlow/adaptlearn/internal/testutil"
)

const testCatalogYAML = `lessons:
  - id: ml-1
    title: "What is Machine Learning?"
    topic: "Machine Learning"
  - id: ml-2
    title: "Training Models"
    topic: "Machine Learning"
    prerequisites: [ml-1]
  - id: nn-1
    title: "Neurons and Layers"
    topic: "Neural Networks"
`

const testPathsYAML = `paths:
  - id: ml-basics
    name: "Machine Learning Basics"
    lessons: [ml-1, ml-2, nn-1]
`

func newTestCatalog(t *testing.T) *catalog.Loader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.lessons.yaml"), []byte(testCatalogYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.paths.yaml"), []byte(testPathsYAML), 0o644))
	loader, err := catalog.NewLoader(dir)
	require.NoError(t, err)
	return loader
}

type progressFixture struct {
	svc       services.ProgressService
	learnerID int64
	repo      repository.ProgressRepository
}

func newProgressFixture(t *testing.T) progressFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })

	cat := newTestCatalog(t)
	progressRepo := sqlite.NewProgressRepository(db)
	learnerRepo := sqlite.NewLearnerRepository(db)

	learner, err := learnerRepo.Upsert(context.Background(), "ada")
	require.NoError(t, err)
	require.NoError(t, learnerRepo.SetCurrentPath(context.Background(), learner.ID, "ml-basics"))

	recs := services.NewRecommendationService(progressRepo, cat)
	svc := services.NewProgressService(progressRepo, cat, recs, nil)
	return progressFixture{svc: svc, learnerID: learner.ID, repo: progressRepo}
}

func TestSubmitQuiz_GradesAndPersists(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	sub, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", 8, 10)
	require.NoError(t, err)
	assert.Equal(t, 80, sub.Percentage)
	assert.Equal(t, models.LevelMastered, sub.Level)
	assert.Equal(t, "Machine Learning", sub.Topic)
	assert.Equal(t, 80, sub.Mastery.Score)
	assert.Equal(t, 2, sub.Mastery.TotalLessons)

	progress, err := f.svc.GetProgress(ctx, f.learnerID)
	require.NoError(t, err)
	assert.Contains(t, progress.CompletedLessons, "ml-1")
	assert.Equal(t, 80, progress.TopicMastery["Machine Learning"].Score)
}

func TestSubmitQuiz_SecondQuizAveragesMastery(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", 6, 10)
	require.NoError(t, err)
	sub, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-2", 8, 10)
	require.NoError(t, err)

	// (60 + 80) / 2
	assert.Equal(t, 70, sub.Mastery.Score)
	assert.Equal(t, 2, sub.Mastery.LessonsCompleted)
}

func TestSubmitQuiz_Validation(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", 5, 0)
	assertAppErrorCode(t, err, errors.ErrCodeValidation)

	_, err = f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", -1, 10)
	assertAppErrorCode(t, err, errors.ErrCodeValidation)

	_, err = f.svc.SubmitQuiz(ctx, f.learnerID, "no-such-lesson", 5, 10)
	assertAppErrorCode(t, err, errors.ErrCodeNotFound)

	_, err = f.svc.SubmitQuiz(ctx, 999, "ml-1", 5, 10)
	assertAppErrorCode(t, err, errors.ErrCodeNotFound)
}

func TestImportSnapshot_ReplacesState(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, f.learnerID, "nn-1", 3, 10)
	require.NoError(t, err)

	data := []byte(`{
		"currentPath": "ml-basics",
		"completedLessons": ["ml-1"],
		"quizResults": {"ml-1": {"score": 9, "totalQuestions": 10, "completedAt": "2026-08-01T10:00:00Z"}},
		"topicMastery": {"Machine Learning": {"score": 90, "lessonsCompleted": 1, "totalLessons": 2, "lastUpdated": "2026-08-01T10:00:00Z"}}
	}`)
	imported, err := f.svc.ImportSnapshot(ctx, f.learnerID, data)
	require.NoError(t, err)
	assert.Equal(t, "ml-basics", imported.CurrentPath)

	progress, err := f.svc.GetProgress(ctx, f.learnerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ml-1"}, progress.CompletedLessons)
	assert.NotContains(t, progress.QuizResults, "nn-1")
	assert.Equal(t, 90, progress.TopicMastery["Machine Learning"].Score)
}

func TestImportSnapshot_RejectsUnknownPath(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.ImportSnapshot(context.Background(), f.learnerID, []byte(`{"currentPath": "bogus"}`))
	assertAppErrorCode(t, err, errors.ErrCodeValidation)
}

func TestReset_ClearsProgress(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", 8, 10)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx, f.learnerID))

	progress, err := f.svc.GetProgress(ctx, f.learnerID)
	require.NoError(t, err)
	assert.Empty(t, progress.CompletedLessons)
	assert.Empty(t, progress.QuizResults)
	assert.Empty(t, progress.TopicMastery)
}

func TestNextLesson_UsesCurrentPath(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	recs := services.NewRecommendationService(f.repo, newTestCatalog(t))

	_, err := f.svc.SubmitQuiz(ctx, f.learnerID, "ml-1", 8, 10)
	require.NoError(t, err)

	rec, err := recs.NextLesson(ctx, f.learnerID, "")
	require.NoError(t, err)
	assert.Equal(t, "ml-2", rec.NextLesson.ID)
	assert.Equal(t, models.ReasonContinue, rec.ReasoningType)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
