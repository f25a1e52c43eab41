package engine

import (
	"math"
	"time"

	"github.com/sgharlow/adaptlearn/internal/models"
)

// Percentage computes a rounded quiz percentage. Score is clamped to the
// question count first so malformed results can never exceed 100.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	if score < 0 {
		score = 0
	}
	if score > total {
		score = total
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// ApplyQuizResult merges one quiz percentage into a topic's mastery record
// and returns the updated record. The merge is a simple two-point average
// of the old score and the new percentage, not a weighted mean over all
// historical attempts. That under-weights long histories on purpose.
//
// totalLessons comes from the catalog (count of lessons in the topic); it
// is not derivable from quiz history.
func ApplyQuizResult(existing *models.TopicMastery, topic string, percentage, totalLessons int, now time.Time) models.TopicMastery {
	if existing == nil {
		return models.TopicMastery{
			Topic:            topic,
			Score:            percentage,
			LessonsCompleted: 1,
			TotalLessons:     totalLessons,
			LastUpdated:      now,
		}
	}

	updated := *existing
	updated.Score = int(math.Round(float64(existing.Score+percentage) / 2))
	updated.LessonsCompleted++
	updated.TotalLessons = totalLessons
	updated.LastUpdated = now
	return updated
}
