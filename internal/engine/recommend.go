package engine

import (
	"fmt"
	"math"

	"github.com/sgharlow/adaptlearn/internal/models"
)

const maxAlternatives = 2

// Recommend resolves "what should this learner do next" for one learning
// path. It is an ordered priority cascade; the first matching branch wins:
//
//  1. a completed path lesson scored below 50% -> urgent review
//  2. a completed path lesson scored 50-69% and the path is less than
//     half done -> review before advancing
//  3. the first uncompleted, prerequisite-satisfied path lesson ->
//     continue (or advance, when it opens a new topic)
//  4. the path is exhausted but the gap analysis has recommendations ->
//     fill the worst gap
//  5. everything is done -> celebrate and suggest a mastery review
//
// Every invocation is stateless; the result depends only on the inputs.
// Path entries missing from lessonByID resolve to a fallback record so a
// stale path never fails the call.
func Recommend(path models.LearningPath, progress models.UserProgress, analysis models.GapAnalysis, lessonByID map[string]models.Lesson) models.EnhancedRecommendation {
	completed := progress.CompletedSet()

	lookup := func(id string) models.Lesson {
		if l, ok := lessonByID[id]; ok {
			return l
		}
		return models.FallbackLesson(id)
	}

	completedInPath := 0
	for _, id := range path.Lessons {
		if completed[id] {
			completedInPath++
		}
	}
	pathProgress := 0
	if len(path.Lessons) > 0 {
		pathProgress = int(math.Round(float64(completedInPath) / float64(len(path.Lessons)) * 100))
	}

	quizPct := func(id string) (int, bool) {
		qr, ok := progress.QuizResults[id]
		if !ok {
			return 0, false
		}
		return Percentage(qr.Score, qr.TotalQuestions), true
	}

	masteryFor := func(topic string) *int {
		if m, ok := progress.TopicMastery[topic]; ok {
			score := m.Score
			return &score
		}
		return nil
	}

	// Completed path lessons bucketed by score, in path order.
	var urgent, medium []string
	for _, id := range path.Lessons {
		if !completed[id] {
			continue
		}
		pct, ok := quizPct(id)
		if !ok {
			continue
		}
		switch {
		case pct < ProficiencyThreshold:
			urgent = append(urgent, id)
		case pct < MasteryThreshold:
			medium = append(medium, id)
		}
	}

	nextInPath := firstEligible(path.Lessons, completed, lookup, "")

	// Branch 1: urgent review.
	if len(urgent) > 0 {
		lesson := lookup(urgent[0])
		pct, _ := quizPct(urgent[0])
		rec := models.EnhancedRecommendation{
			NextLesson:    lesson,
			Reasoning:     reviewReasoning(lesson, pct, true),
			ReasoningType: models.ReasonReview,
			Priority:      models.PriorityHigh,
			PathProgress:  pathProgress,
			TopicMastery:  masteryFor(lesson.Topic),
		}
		for _, id := range urgent[1:] {
			if len(rec.Alternatives) >= maxAlternatives {
				break
			}
			alt := lookup(id)
			altPct, _ := quizPct(id)
			rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
				LessonID: id,
				Title:    alt.Title,
				Reason:   fmt.Sprintf("Also scored %d%% and needs urgent review", altPct),
			})
		}
		rec.VoiceAnnouncement = reviewVoice(lesson, pct, true)
		return rec
	}

	// Branch 2: a medium gap beats advancing while the path is young.
	if len(medium) > 0 && pathProgress < 50 {
		lesson := lookup(medium[0])
		pct, _ := quizPct(medium[0])
		rec := models.EnhancedRecommendation{
			NextLesson:    lesson,
			Reasoning:     reviewReasoning(lesson, pct, false),
			ReasoningType: models.ReasonReview,
			Priority:      models.PriorityMedium,
			PathProgress:  pathProgress,
			TopicMastery:  masteryFor(lesson.Topic),
		}
		// Let the learner choose to skip the review and keep moving.
		if nextInPath != "" {
			next := lookup(nextInPath)
			rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
				LessonID: nextInPath,
				Title:    next.Title,
				Reason:   "Skip the review and continue your path",
			})
		}
		for _, id := range medium[1:] {
			if len(rec.Alternatives) >= maxAlternatives {
				break
			}
			alt := lookup(id)
			altPct, _ := quizPct(id)
			rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
				LessonID: id,
				Title:    alt.Title,
				Reason:   fmt.Sprintf("Another lesson at %d%% worth revisiting", altPct),
			})
		}
		rec.VoiceAnnouncement = reviewVoice(lesson, pct, false)
		return rec
	}

	// Branch 3: continue the path.
	if nextInPath != "" {
		lesson := lookup(nextInPath)
		reasoningType := models.ReasonContinue
		if isNewTopic(lesson.Topic, progress.CompletedLessons, lessonByID) {
			reasoningType = models.ReasonAdvance
		}
		rec := models.EnhancedRecommendation{
			NextLesson:    lesson,
			Reasoning:     continueReasoning(lesson, reasoningType),
			ReasoningType: reasoningType,
			Priority:      models.PriorityMedium,
			PathProgress:  pathProgress,
			TopicMastery:  masteryFor(lesson.Topic),
		}
		for _, id := range medium {
			if len(rec.Alternatives) >= maxAlternatives {
				break
			}
			alt := lookup(id)
			altPct, _ := quizPct(id)
			rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
				LessonID: id,
				Title:    alt.Title,
				Reason:   fmt.Sprintf("Review first: you scored %d%% here", altPct),
			})
		}
		if len(rec.Alternatives) < maxAlternatives {
			if other := firstEligible(path.Lessons, completed, lookup, nextInPath); other != "" {
				alt := lookup(other)
				rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
					LessonID: other,
					Title:    alt.Title,
					Reason:   "Another lesson you're ready for",
				})
			}
		}
		rec.VoiceAnnouncement = continueVoice(lesson, reasoningType, pathProgress)
		return rec
	}

	// Branch 4: path exhausted, fill a gap from the global analysis.
	if len(analysis.Recommendations) > 0 {
		top := analysis.Recommendations[0]
		lesson := lookup(top.LessonID)
		rec := models.EnhancedRecommendation{
			NextLesson:    lesson,
			Reasoning:     fillGapReasoning(lesson, top),
			ReasoningType: models.ReasonFillGap,
			Priority:      top.Priority,
			PathProgress:  pathProgress,
			TopicMastery:  masteryFor(lesson.Topic),
		}
		for _, r := range analysis.Recommendations[1:] {
			if len(rec.Alternatives) >= maxAlternatives {
				break
			}
			alt := lookup(r.LessonID)
			rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
				LessonID: r.LessonID,
				Title:    alt.Title,
				Reason:   r.Reason,
			})
		}
		rec.VoiceAnnouncement = fillGapVoice(lesson, top)
		return rec
	}

	// Branch 5: everything is done.
	var firstLesson models.Lesson
	if len(path.Lessons) > 0 {
		firstLesson = lookup(path.Lessons[0])
	} else {
		firstLesson = models.FallbackLesson(path.ID)
	}
	overall := analysis.OverallMastery
	rec := models.EnhancedRecommendation{
		NextLesson:    firstLesson,
		Reasoning:     completeReasoning(path, firstLesson),
		ReasoningType: models.ReasonComplete,
		Priority:      models.PriorityLow,
		PathProgress:  100,
		TopicMastery:  &overall,
	}
	for i, id := range path.Lessons {
		if i >= 3 {
			break
		}
		alt := lookup(id)
		rec.Alternatives = append(rec.Alternatives, models.AlternativeLesson{
			LessonID: id,
			Title:    alt.Title,
			Reason:   "Review for mastery",
		})
	}
	rec.VoiceAnnouncement = completeVoice(path, firstLesson, overall)
	return rec
}

// firstEligible returns the first uncompleted path lesson whose
// prerequisites are all completed, skipping the given lesson id.
func firstEligible(pathLessons []string, completed map[string]bool, lookup func(string) models.Lesson, skip string) string {
	for _, id := range pathLessons {
		if id == skip || completed[id] {
			continue
		}
		if prerequisitesMet(lookup(id), completed) {
			return id
		}
	}
	return ""
}

func prerequisitesMet(lesson models.Lesson, completed map[string]bool) bool {
	for _, prereq := range lesson.Prerequisites {
		if !completed[prereq] {
			return false
		}
	}
	return true
}

// isNewTopic reports whether no completed lesson shares the given topic.
func isNewTopic(topic string, completedLessons []string, lessonByID map[string]models.Lesson) bool {
	for _, id := range completedLessons {
		if l, ok := lessonByID[id]; ok && l.Topic == topic {
			return false
		}
	}
	return true
}
