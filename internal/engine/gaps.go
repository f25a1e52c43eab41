package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/sgharlow/adaptlearn/internal/models"
)

const maxStudyRecommendations = 3

// AnalyzeGaps classifies every catalog topic for one learner and returns
// the aggregate picture: strengths, gaps sorted worst-first, and up to
// three ranked study recommendations.
//
// lessons must be the catalog lesson list in catalog order; "first lesson
// in a topic" means first in that slice. Topics without any catalog lesson
// are excluded from the analysis. The function is pure: it never mutates
// progress and performs no I/O.
func AnalyzeGaps(progress models.UserProgress, topics []string, lessons []models.Lesson) models.GapAnalysis {
	completed := progress.CompletedSet()

	byTopic := make(map[string][]models.Lesson)
	for _, l := range lessons {
		byTopic[l.Topic] = append(byTopic[l.Topic], l)
	}

	var gaps, strengths []models.TopicGap
	for _, topic := range topics {
		topicLessons := byTopic[topic]
		if len(topicLessons) == 0 {
			continue
		}

		completedInTopic := 0
		for _, l := range topicLessons {
			if completed[l.ID] {
				completedInTopic++
			}
		}

		score := 0
		mastery, hasMastery := progress.TopicMastery[topic]
		if hasMastery {
			score = mastery.Score
		}

		gap := models.TopicGap{
			Topic:            topic,
			Score:            score,
			Level:            Classify(score),
			LessonsCompleted: completedInTopic,
		}
		if hasMastery {
			t := mastery.LastUpdated
			gap.LastUpdated = &t
		}
		if score < MasteryThreshold {
			gap.LessonsNeededForReview = lessonsNeedingReview(progress, topicLessons)
		}

		switch {
		case gap.Level == models.LevelMastered:
			strengths = append(strengths, gap)
		case hasMastery || completedInTopic == 0:
			// Any below-threshold mastery record is a gap; so is a topic
			// the learner has never touched, to surface unexplored areas.
			gaps = append(gaps, gap)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Score < gaps[j].Score })
	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].Score > strengths[j].Score })

	analysis := models.GapAnalysis{
		Gaps:            gaps,
		Strengths:       strengths,
		Recommendations: buildStudyRecommendations(gaps, strengths, byTopic, completed),
	}

	sum, started := 0, 0
	for _, g := range append(append([]models.TopicGap{}, gaps...), strengths...) {
		switch g.Level {
		case models.LevelMastered:
			analysis.MasteredTopics++
		case models.LevelProficient:
			analysis.ProficientTopics++
		case models.LevelNeedsWork:
			analysis.GapTopics++
		case models.LevelNotStarted:
			analysis.NotStartedTopics++
		}
		if g.Level != models.LevelNotStarted {
			sum += g.Score
			started++
		}
	}
	if started > 0 {
		analysis.OverallMastery = int(math.Round(float64(sum) / float64(started)))
	}

	return analysis
}

// lessonsNeedingReview lists lessons in catalog order whose recorded quiz
// percentage fell below the mastery threshold. Unattempted lessons are not
// review candidates.
func lessonsNeedingReview(progress models.UserProgress, topicLessons []models.Lesson) []string {
	var ids []string
	for _, l := range topicLessons {
		qr, ok := progress.QuizResults[l.ID]
		if !ok {
			continue
		}
		if Percentage(qr.Score, qr.TotalQuestions) < MasteryThreshold {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// buildStudyRecommendations ranks the three worst gaps into concrete
// actions, then falls back to advancing the strongest topic when fewer
// than three actions came out of the gaps.
func buildStudyRecommendations(gaps, strengths []models.TopicGap, byTopic map[string][]models.Lesson, completed map[string]bool) []models.StudyRecommendation {
	var recs []models.StudyRecommendation

	limit := len(gaps)
	if limit > maxStudyRecommendations {
		limit = maxStudyRecommendations
	}
	for _, gap := range gaps[:limit] {
		if gap.Level == models.LevelNotStarted {
			first := byTopic[gap.Topic][0]
			recs = append(recs, models.StudyRecommendation{
				Type:     models.RecommendPractice,
				LessonID: first.ID,
				Topic:    gap.Topic,
				Reason:   fmt.Sprintf("You haven't explored %s yet. %q is the place to start.", gap.Topic, first.Title),
				Priority: models.PriorityMedium,
			})
			continue
		}
		if len(gap.LessonsNeededForReview) == 0 {
			continue
		}
		priority := models.PriorityMedium
		if gap.Score < ProficiencyThreshold {
			priority = models.PriorityHigh
		}
		recs = append(recs, models.StudyRecommendation{
			Type:     models.RecommendReview,
			LessonID: gap.LessonsNeededForReview[0],
			Topic:    gap.Topic,
			Reason:   fmt.Sprintf("Your %s mastery is at %d%%. Reviewing weak lessons will close the gap.", gap.Topic, gap.Score),
			Priority: priority,
		})
	}

	if len(recs) < maxStudyRecommendations && len(strengths) > 0 {
		strongest := strengths[0]
		for _, l := range byTopic[strongest.Topic] {
			if completed[l.ID] {
				continue
			}
			recs = append(recs, models.StudyRecommendation{
				Type:     models.RecommendAdvance,
				LessonID: l.ID,
				Topic:    strongest.Topic,
				Reason:   fmt.Sprintf("You're strong in %s (%d%%). %q builds on that momentum.", strongest.Topic, strongest.Score, l.Title),
				Priority: models.PriorityLow,
			})
			break
		}
	}

	return recs
}
