package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgharlow/adaptlearn/internal/api"
	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/db"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository/sqlite"
	"github.com/sgharlow/adaptlearn/internal/services"
)

const apiTestLessons = `lessons:
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

const apiTestPaths = `paths:
  - id: ml-basics
    name: "Machine Learning Basics"
    lessons: [ml-1, ml-2, nn-1]
`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.lessons.yaml"), []byte(apiTestLessons), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.paths.yaml"), []byte(apiTestPaths), 0o644))
	cat, err := catalog.NewLoader(dir)
	require.NoError(t, err)

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	learnerRepo := sqlite.NewLearnerRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	narrationRepo := sqlite.NewNarrationRepository(database.DB)

	recs := services.NewRecommendationService(progressRepo, cat)
	server := &api.Server{
		DB:              database,
		Catalog:         cat,
		Learners:        services.NewLearnerService(learnerRepo, cat),
		Progress:        services.NewProgressService(progressRepo, cat, recs, nil),
		Recommendations: recs,
		Narration:       services.NewNarrationService(narrationRepo, nil),
		Tutor:           services.NewTutorService(cat, nil),
	}
	return server.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerLearner(t *testing.T, h http.Handler, name string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/learners", `{"name": "`+name+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/catalog/lessons", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lessons struct {
		Lessons []models.Lesson `json:"lessons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	assert.Len(t, lessons.Lessons, 3)

	rec = doJSON(t, h, http.MethodGet, "/api/catalog/lessons?topic=Neural+Networks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	require.Len(t, lessons.Lessons, 1)
	assert.Equal(t, "nn-1", lessons.Lessons[0].ID)

	rec = doJSON(t, h, http.MethodGet, "/api/catalog/paths", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/catalog/lessons/ml-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lesson models.Lesson
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lesson))
	assert.Equal(t, "Machine Learning", lesson.Topic)

	rec = doJSON(t, h, http.MethodGet, "/api/catalog/lessons/bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/catalog/paths/ml-basics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedRoutesRequireCookie(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/api/progress", "/api/analysis", "/api/recommendation"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	}
}

func TestQuizToRecommendationFlow(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	rec := doJSON(t, h, http.MethodPut, "/api/learners/me/path", `{"pathId": "ml-basics"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/lessons/ml-1/quiz", `{"score": 8, "totalQuestions": 10}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var submission models.QuizSubmission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submission))
	assert.Equal(t, 80, submission.Percentage)
	assert.Equal(t, models.LevelMastered, submission.Level)

	rec = doJSON(t, h, http.MethodGet, "/api/recommendation", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var recommendation models.EnhancedRecommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recommendation))
	assert.Equal(t, "ml-2", recommendation.NextLesson.ID)
	assert.Equal(t, models.ReasonContinue, recommendation.ReasoningType)
	assert.NotEmpty(t, recommendation.VoiceAnnouncement)

	rec = doJSON(t, h, http.MethodGet, "/api/analysis", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis models.GapAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, 1, analysis.MasteredTopics)
}

func TestSubmitQuizValidation(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	rec := doJSON(t, h, http.MethodPost, "/api/lessons/ml-1/quiz", `{"score": 5, "totalQuestions": 0}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/lessons/bogus/quiz", `{"score": 5, "totalQuestions": 10}`, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendationWithoutPath(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	rec := doJSON(t, h, http.MethodGet, "/api/recommendation", "", cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestImportAndReset(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	snapshot := `{
		"currentPath": "ml-basics",
		"completedLessons": ["ml-1"],
		"quizResults": {"ml-1": {"score": 9, "totalQuestions": 10, "completedAt": "2026-08-01T10:00:00Z"}},
		"topicMastery": {"Machine Learning": {"score": 90, "lessonsCompleted": 1, "totalLessons": 2, "lastUpdated": "2026-08-01T10:00:00Z"}}
	}`
	rec := doJSON(t, h, http.MethodPost, "/api/progress/import", snapshot, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/progress", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var progress models.UserProgress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, []string{"ml-1"}, progress.CompletedLessons)

	rec = doJSON(t, h, http.MethodPost, "/api/progress/reset", "", cookies)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/progress", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Empty(t, progress.CompletedLessons)
}

func TestSpeechAndTutorUnavailableWithoutAPIKey(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	rec := doJSON(t, h, http.MethodPost, "/api/speech", `{"text": "hello"}`, cookies)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/tutor", `{"lessonId": "ml-1", "question": "why?"}`, cookies)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuizHistoryFilters(t *testing.T) {
	h := newTestServer(t)
	cookies := registerLearner(t, h, "ada")

	rec := doJSON(t, h, http.MethodPost, "/api/lessons/ml-1/quiz", `{"score": 8, "totalQuestions": 10}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/lessons/nn-1/quiz", `{"score": 3, "totalQuestions": 10}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/progress/history?topic=Machine+Learning", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Results []models.QuizResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Results, 1)
	assert.Equal(t, "ml-1", history.Results[0].LessonID)

	rec = doJSON(t, h, http.MethodGet, "/api/progress/history?since=not-a-time", "", cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
