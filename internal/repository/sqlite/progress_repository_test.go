package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
	"github.com/sgharlow/adaptlearn/internal/repository/sqlite"
	"github.com/sgharlow/adaptlearn/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.ProgressRepository
	learners repository.LearnerRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
	s.learners = sqlite.NewLearnerRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) setupLearner() int64 {
	learner, err := s.learners.Upsert(context.Background(), "ada")
	s.Require().NoError(err)
	return learner.ID
}

func (s *ProgressRepositorySuite) TestGetProgressMissingLearner() {
	progress, err := s.repo.GetProgress(context.Background(), 999)
	s.Require().NoError(err)
	s.Nil(progress)
}

func (s *ProgressRepositorySuite) TestGetProgressEmpty() {
	ctx := context.Background()
	id := s.setupLearner()

	progress, err := s.repo.GetProgress(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(progress)
	s.Empty(progress.CompletedLessons)
	s.Empty(progress.QuizResults)
	s.Empty(progress.TopicMastery)
	s.Nil(progress.LastActivity)
}

func (s *ProgressRepositorySuite) TestSaveQuizResultRoundTrip() {
	ctx := context.Background()
	id := s.setupLearner()
	now := time.Now().UTC().Truncate(time.Second)

	result := models.QuizResult{LessonID: "ml-1", Score: 8, TotalQuestions: 10, CompletedAt: now}
	mastery := models.TopicMastery{Topic: "Machine Learning", Score: 80, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: now}
	s.Require().NoError(s.repo.SaveQuizResult(ctx, id, result, mastery))

	progress, err := s.repo.GetProgress(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(progress)
	s.Equal([]string{"ml-1"}, progress.CompletedLessons)
	s.Equal(8, progress.QuizResults["ml-1"].Score)
	s.Equal(80, progress.TopicMastery["Machine Learning"].Score)
	s.Require().NotNil(progress.LastActivity)
}

func (s *ProgressRepositorySuite) TestSaveQuizResultOverwritesRetake() {
	ctx := context.Background()
	id := s.setupLearner()
	now := time.Now().UTC()

	first := models.QuizResult{LessonID: "ml-1", Score: 4, TotalQuestions: 10, CompletedAt: now}
	s.Require().NoError(s.repo.SaveQuizResult(ctx, id, first,
		models.TopicMastery{Topic: "Machine Learning", Score: 40, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: now}))

	retake := models.QuizResult{LessonID: "ml-1", Score: 9, TotalQuestions: 10, CompletedAt: now.Add(time.Hour)}
	s.Require().NoError(s.repo.SaveQuizResult(ctx, id, retake,
		models.TopicMastery{Topic: "Machine Learning", Score: 65, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: now.Add(time.Hour)}))

	progress, err := s.repo.GetProgress(ctx, id)
	s.Require().NoError(err)
	s.Len(progress.QuizResults, 1)
	s.Equal(9, progress.QuizResults["ml-1"].Score)
	s.Equal(65, progress.TopicMastery["Machine Learning"].Score)
	// Completed lesson stays a single row
	s.Equal([]string{"ml-1"}, progress.CompletedLessons)
}

func (s *ProgressRepositorySuite) TestListQuizResultsFilters() {
	ctx := context.Background()
	id := s.setupLearner()
	base := time.Now().UTC().Truncate(time.Second)

	seed := []struct {
		lesson string
		topic  string
		score  int
		at     time.Time
	}{
		{"ml-1", "Machine Learning", 8, base},
		{"ml-2", "Machine Learning", 3, base.Add(time.Hour)},
		{"nn-1", "Neural Networks", 6, base.Add(2 * time.Hour)},
	}
	for _, row := range seed {
		s.Require().NoError(s.repo.SaveQuizResult(ctx, id,
			models.QuizResult{LessonID: row.lesson, Score: row.score, TotalQuestions: 10, CompletedAt: row.at},
			models.TopicMastery{Topic: row.topic, Score: row.score * 10, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: row.at}))
	}

	byTopic, err := s.repo.ListQuizResults(ctx, models.QuizResultFilter{LearnerID: id, Topic: "Machine Learning"})
	s.Require().NoError(err)
	s.Len(byTopic, 2)

	minScore := 5
	strong, err := s.repo.ListQuizResults(ctx, models.QuizResultFilter{LearnerID: id, MinScore: &minScore})
	s.Require().NoError(err)
	s.Len(strong, 2)

	since := base.Add(30 * time.Minute)
	recent, err := s.repo.ListQuizResults(ctx, models.QuizResultFilter{LearnerID: id, Since: &since})
	s.Require().NoError(err)
	s.Len(recent, 2)

	ordered, err := s.repo.ListQuizResults(ctx, models.QuizResultFilter{LearnerID: id, OrderBy: "score", OrderDir: "asc", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(ordered, 2)
	s.Equal("ml-2", ordered[0].LessonID)
	s.Equal("nn-1", ordered[1].LessonID)
}

func (s *ProgressRepositorySuite) TestListQuizResultsDefaultsToNewestFirst() {
	ctx := context.Background()
	id := s.setupLearner()
	base := time.Now().UTC().Truncate(time.Second)

	for i, lesson := range []string{"ml-1", "ml-2"} {
		s.Require().NoError(s.repo.SaveQuizResult(ctx, id,
			models.QuizResult{LessonID: lesson, Score: 5, TotalQuestions: 10, CompletedAt: base.Add(time.Duration(i) * time.Hour)},
			models.TopicMastery{Topic: "Machine Learning", Score: 50, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: base}))
	}

	results, err := s.repo.ListQuizResults(ctx, models.QuizResultFilter{LearnerID: id})
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("ml-2", results[0].LessonID)
}

func (s *ProgressRepositorySuite) TestReplaceProgress() {
	ctx := context.Background()
	id := s.setupLearner()
	now := time.Now().UTC().Truncate(time.Second)

	// Existing state that the import should fully replace
	s.Require().NoError(s.repo.SaveQuizResult(ctx, id,
		models.QuizResult{LessonID: "old-1", Score: 2, TotalQuestions: 10, CompletedAt: now},
		models.TopicMastery{Topic: "Old Topic", Score: 20, LessonsCompleted: 1, TotalLessons: 2, LastUpdated: now}))

	imported := models.UserProgress{
		CurrentPath:      "ml-basics",
		CompletedLessons: []string{"ml-1", "ml-2"},
		QuizResults: map[string]models.QuizResult{
			"ml-1": {LessonID: "ml-1", Score: 9, TotalQuestions: 10, CompletedAt: now},
		},
		TopicMastery: map[string]models.TopicMastery{
			"Machine Learning": {Topic: "Machine Learning", Score: 90, LessonsCompleted: 2, TotalLessons: 3, LastUpdated: now},
		},
		LastActivity: &now,
	}
	topics := map[string]string{"ml-1": "Machine Learning"}
	s.Require().NoError(s.repo.ReplaceProgress(ctx, id, imported, topics))

	progress, err := s.repo.GetProgress(ctx, id)
	s.Require().NoError(err)
	s.Equal("ml-basics", progress.CurrentPath)
	s.ElementsMatch([]string{"ml-1", "ml-2"}, progress.CompletedLessons)
	s.NotContains(progress.QuizResults, "old-1")
	s.Equal(9, progress.QuizResults["ml-1"].Score)
	s.NotContains(progress.TopicMastery, "Old Topic")
	s.Equal(90, progress.TopicMastery["Machine Learning"].Score)
}

func (s *ProgressRepositorySuite) TestReset() {
	ctx := context.Background()
	id := s.setupLearner()
	now := time.Now().UTC()

	s.Require().NoError(s.learners.SetCurrentPath(ctx, id, "ml-basics"))
	s.Require().NoError(s.repo.SaveQuizResult(ctx, id,
		models.QuizResult{LessonID: "ml-1", Score: 8, TotalQuestions: 10, CompletedAt: now},
		models.TopicMastery{Topic: "Machine Learning", Score: 80, LessonsCompleted: 1, TotalLessons: 3, LastUpdated: now}))

	s.Require().NoError(s.repo.Reset(ctx, id))

	progress, err := s.repo.GetProgress(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(progress)
	s.Empty(progress.CurrentPath)
	s.Empty(progress.CompletedLessons)
	s.Empty(progress.QuizResults)
	s.Empty(progress.TopicMastery)
	s.Nil(progress.LastActivity)

	// Learner row survives a reset
	learner, err := s.learners.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(learner)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
