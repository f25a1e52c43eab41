package models

import "time"

// MasteryLevel buckets a 0-100 topic score.
type MasteryLevel string

const (
	LevelMastered   MasteryLevel = "mastered"
	LevelProficient MasteryLevel = "proficient"
	LevelNeedsWork  MasteryLevel = "needs-work"
	LevelNotStarted MasteryLevel = "not-started"
)

// Rank orders levels from worst to best: not-started < needs-work <
// proficient < mastered.
func (l MasteryLevel) Rank() int {
	switch l {
	case LevelNeedsWork:
		return 1
	case LevelProficient:
		return 2
	case LevelMastered:
		return 3
	default:
		return 0
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ReasoningType is the terminal state of the recommendation cascade.
type ReasoningType string

const (
	ReasonReview   ReasoningType = "review"
	ReasonContinue ReasoningType = "continue"
	ReasonAdvance  ReasoningType = "advance"
	ReasonFillGap  ReasoningType = "fill-gap"
	ReasonComplete ReasoningType = "complete"
)

type RecommendationType string

const (
	RecommendPractice RecommendationType = "practice"
	RecommendReview   RecommendationType = "review"
	RecommendAdvance  RecommendationType = "advance"
)

// TopicGap is a per-topic snapshot, recomputed on every analysis call and
// never stored.
type TopicGap struct {
	Topic                  string       `json:"topic"`
	Score                  int          `json:"score"`
	Level                  MasteryLevel `json:"level"`
	LessonsCompleted       int          `json:"lessonsCompleted"`
	LessonsNeededForReview []string     `json:"lessonsNeededForReview,omitempty"`
	LastUpdated            *time.Time   `json:"lastUpdated,omitempty"`
}

// StudyRecommendation is one ranked entry in a gap analysis.
type StudyRecommendation struct {
	Type     RecommendationType `json:"type"`
	LessonID string             `json:"lessonId"`
	Topic    string             `json:"topic"`
	Reason   string             `json:"reason"`
	Priority Priority           `json:"priority"`
}

// GapAnalysis is the aggregate output of analyzing a learner's progress
// against the full catalog topic set.
type GapAnalysis struct {
	OverallMastery   int                   `json:"overallMastery"`
	MasteredTopics   int                   `json:"masteredTopics"`
	ProficientTopics int                   `json:"proficientTopics"`
	GapTopics        int                   `json:"gapTopics"`
	NotStartedTopics int                   `json:"notStartedTopics"`
	Gaps             []TopicGap            `json:"gaps"`
	Strengths        []TopicGap            `json:"strengths"`
	Recommendations  []StudyRecommendation `json:"recommendations"`
}

// AlternativeLesson is a secondary suggestion alongside the main
// recommendation.
type AlternativeLesson struct {
	LessonID string `json:"lessonId"`
	Title    string `json:"title"`
	Reason   string `json:"reason"`
}

// EnhancedRecommendation is the single "what's next" decision for a path.
type EnhancedRecommendation struct {
	NextLesson        Lesson              `json:"nextLesson"`
	Reasoning         string              `json:"reasoning"`
	ReasoningType     ReasoningType       `json:"reasoningType"`
	Priority          Priority            `json:"priority"`
	PathProgress      int                 `json:"pathProgress"`
	TopicMastery      *int                `json:"topicMastery"`
	Alternatives      []AlternativeLesson `json:"alternatives"`
	VoiceAnnouncement string              `json:"voiceAnnouncement"`
}
