package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgharlow/adaptlearn/internal/snapshot"
)

func TestParseFullSnapshot(t *testing.T) {
	data := []byte(`{
		"currentPath": "ml-basics",
		"completedLessons": ["ml-1", "ml-2"],
		"quizResults": {
			"ml-1": {"score": 8, "totalQuestions": 10, "completedAt": "2026-08-01T10:00:00Z"}
		},
		"topicMastery": {
			"Machine Learning": {"score": 80, "lessonsCompleted": 2, "totalLessons": 3, "lastUpdated": "2026-08-01T10:00:00Z"}
		},
		"lastActivity": "2026-08-01T10:00:00Z"
	}`)

	progress, err := snapshot.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "ml-basics", progress.CurrentPath)
	assert.Equal(t, []string{"ml-1", "ml-2"}, progress.CompletedLessons)
	require.Contains(t, progress.QuizResults, "ml-1")
	assert.Equal(t, "ml-1", progress.QuizResults["ml-1"].LessonID)
	assert.Equal(t, 8, progress.QuizResults["ml-1"].Score)
	assert.Equal(t, 80, progress.TopicMastery["Machine Learning"].Score)
	require.NotNil(t, progress.LastActivity)
}

func TestParseEmptySnapshot(t *testing.T) {
	progress, err := snapshot.Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, progress.CurrentPath)
	assert.NotNil(t, progress.CompletedLessons)
	assert.Empty(t, progress.CompletedLessons)
	assert.Empty(t, progress.QuizResults)
	assert.Empty(t, progress.TopicMastery)
	assert.Nil(t, progress.LastActivity)
}

func TestParseDefaultsMissingTimestamps(t *testing.T) {
	data := []byte(`{
		"quizResults": {"ml-1": {"score": 5, "totalQuestions": 10}},
		"topicMastery": {"Machine Learning": {"score": 50}}
	}`)

	progress, err := snapshot.Parse(data)
	require.NoError(t, err)
	assert.False(t, progress.QuizResults["ml-1"].CompletedAt.IsZero())
	assert.False(t, progress.TopicMastery["Machine Learning"].LastUpdated.IsZero())
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":           `{`,
		"negative score":     `{"quizResults": {"ml-1": {"score": -1, "totalQuestions": 10}}}`,
		"zero questions":     `{"quizResults": {"ml-1": {"score": 0, "totalQuestions": 0}}}`,
		"mastery over 100":   `{"topicMastery": {"ML": {"score": 120}}}`,
		"unknown top field":  `{"bogus": true}`,
		"non-string lessons": `{"completedLessons": [42]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := snapshot.Parse([]byte(payload))
			assert.Error(t, err)
		})
	}
}
