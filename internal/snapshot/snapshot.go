// Package snapshot parses and validates exported progress snapshots so
// learners can carry their state between devices.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sgharlow/adaptlearn/internal/models"
)

//go:embed schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// Parse validates raw snapshot JSON against the schema and converts it
// into a UserProgress. Missing optional sections default to empty.
func Parse(data []byte) (*models.UserProgress, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("invalid snapshot: %s", firstError(result))
	}

	var raw struct {
		CurrentPath      string   `json:"currentPath"`
		CompletedLessons []string `json:"completedLessons"`
		QuizResults      map[string]struct {
			Score          int        `json:"score"`
			TotalQuestions int        `json:"totalQuestions"`
			CompletedAt    *time.Time `json:"completedAt"`
		} `json:"quizResults"`
		TopicMastery map[string]struct {
			Score            int        `json:"score"`
			LessonsCompleted int        `json:"lessonsCompleted"`
			TotalLessons     int        `json:"totalLessons"`
			LastUpdated      *time.Time `json:"lastUpdated"`
		} `json:"topicMastery"`
		LastActivity *time.Time `json:"lastActivity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	now := time.Now().UTC()
	progress := models.UserProgress{
		CurrentPath:      raw.CurrentPath,
		CompletedLessons: raw.CompletedLessons,
		QuizResults:      make(map[string]models.QuizResult, len(raw.QuizResults)),
		TopicMastery:     make(map[string]models.TopicMastery, len(raw.TopicMastery)),
		LastActivity:     raw.LastActivity,
	}
	if progress.CompletedLessons == nil {
		progress.CompletedLessons = []string{}
	}

	for lessonID, qr := range raw.QuizResults {
		completedAt := now
		if qr.CompletedAt != nil {
			completedAt = *qr.CompletedAt
		}
		progress.QuizResults[lessonID] = models.QuizResult{
			LessonID:       lessonID,
			Score:          qr.Score,
			TotalQuestions: qr.TotalQuestions,
			CompletedAt:    completedAt,
		}
	}

	for topic, tm := range raw.TopicMastery {
		lastUpdated := now
		if tm.LastUpdated != nil {
			lastUpdated = *tm.LastUpdated
		}
		progress.TopicMastery[topic] = models.TopicMastery{
			Topic:            topic,
			Score:            tm.Score,
			LessonsCompleted: tm.LessonsCompleted,
			TotalLessons:     tm.TotalLessons,
			LastUpdated:      lastUpdated,
		}
	}

	return &progress, nil
}

func firstError(result *gojsonschema.Result) string {
	errs := result.Errors()
	if len(errs) == 0 {
		return "schema validation failed"
	}
	return errs[0].String()
}
