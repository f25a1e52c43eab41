package engine

import "github.com/sgharlow/adaptlearn/internal/models"

// Mastery thresholds used at every decision point. They are deliberately
// not configurable; changing them changes behavior globally.
const (
	MasteryThreshold     = 70
	ProficiencyThreshold = 50
)

// Classify buckets a 0-100 mastery score. A score of zero means the topic
// was never attempted, not that the learner failed everything.
func Classify(score int) models.MasteryLevel {
	switch {
	case score >= MasteryThreshold:
		return models.LevelMastered
	case score >= ProficiencyThreshold:
		return models.LevelProficient
	case score > 0:
		return models.LevelNeedsWork
	default:
		return models.LevelNotStarted
	}
}
