package engine

import (
	"fmt"

	"github.com/sgharlow/adaptlearn/internal/models"
)

// Reasoning and voice strings are templated deterministically from the
// computed facts. No text generation service is involved; the same inputs
// always produce the same sentences.

func reviewReasoning(lesson models.Lesson, pct int, urgent bool) string {
	if urgent {
		return fmt.Sprintf("You scored %d%% on %q, which is below the 50%% mark. Reviewing it now will rebuild your %s foundation before you move on.",
			pct, lesson.Title, lesson.Topic)
	}
	return fmt.Sprintf("You scored %d%% on %q. Since you're early in this path, a quick review will lock in %s before the material builds on it.",
		pct, lesson.Title, lesson.Topic)
}

func reviewVoice(lesson models.Lesson, pct int, urgent bool) string {
	if urgent {
		return fmt.Sprintf("Let's revisit %s. Your last quiz came in at %d percent, so going over it again is the fastest way to get back on track. Ready when you are.",
			lesson.Title, pct)
	}
	return fmt.Sprintf("I'd suggest a quick review of %s. You scored %d percent, which is solid but not quite there yet. A short refresher now will pay off later in the path.",
		lesson.Title, pct)
}

func continueReasoning(lesson models.Lesson, rt models.ReasoningType) string {
	if rt == models.ReasonAdvance {
		return fmt.Sprintf("%q opens up a new topic for you: %s. Your path continues here.", lesson.Title, lesson.Topic)
	}
	return fmt.Sprintf("%q is the next step in your path, building on the %s lessons you've already completed.", lesson.Title, lesson.Topic)
}

func continueVoice(lesson models.Lesson, rt models.ReasoningType, pathProgress int) string {
	if rt == models.ReasonAdvance {
		return fmt.Sprintf("Next up is %s, your first lesson in %s. You're %d percent of the way through this path, so this is a great time to branch out.",
			lesson.Title, lesson.Topic, pathProgress)
	}
	return fmt.Sprintf("Next up is %s, continuing your work in %s. You're %d percent of the way through this path. Keep it going.",
		lesson.Title, lesson.Topic, pathProgress)
}

func fillGapReasoning(lesson models.Lesson, rec models.StudyRecommendation) string {
	return fmt.Sprintf("You've finished every lesson in this path. %s Your biggest opportunity now is %q in %s.",
		rec.Reason, lesson.Title, rec.Topic)
}

func fillGapVoice(lesson models.Lesson, rec models.StudyRecommendation) string {
	return fmt.Sprintf("Nice work, you've completed this path. Looking across all your topics, %s is where I'd go next. Let's work on %s.",
		rec.Topic, lesson.Title)
}

func completeReasoning(path models.LearningPath, first models.Lesson) string {
	return fmt.Sprintf("You've completed %s with no outstanding gaps. Revisiting %q from the top is a good way to cement what you've learned.",
		path.Name, first.Title)
}

func completeVoice(path models.LearningPath, first models.Lesson, overall int) string {
	return fmt.Sprintf("Congratulations, you've finished %s with an overall mastery of %d percent. If you'd like to keep sharp, start back at %s for a mastery review.",
		path.Name, overall, first.Title)
}
