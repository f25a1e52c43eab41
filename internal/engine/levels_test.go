package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sgharlow/adaptlearn/internal/engine"
	"github.com/sgharlow/adaptlearn/internal/models"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected models.MasteryLevel
	}{
		{"zero means never attempted", 0, models.LevelNotStarted},
		{"one is needs-work", 1, models.LevelNeedsWork},
		{"just under proficiency", 49, models.LevelNeedsWork},
		{"proficiency threshold", 50, models.LevelProficient},
		{"just under mastery", 69, models.LevelProficient},
		{"mastery threshold", 70, models.LevelMastered},
		{"perfect score", 100, models.LevelMastered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.Classify(tt.score))
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	// A higher score must never classify into a worse bucket.
	prev := engine.Classify(0)
	for score := 1; score <= 100; score++ {
		level := engine.Classify(score)
		assert.GreaterOrEqual(t, level.Rank(), prev.Rank(), "score %d classified worse than score %d", score, score-1)
		prev = level
	}
}
