package models

import "time"

// QuizResult is the last finished quiz attempt for one lesson. A new
// attempt overwrites the previous one.
type QuizResult struct {
	LessonID       string    `json:"lessonId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// TopicMastery is the aggregated mastery for one topic, a 0-100 running
// two-point average of quiz percentages for lessons in that topic.
type TopicMastery struct {
	Topic            string    `json:"topic"`
	Score            int       `json:"score"`
	LessonsCompleted int       `json:"lessonsCompleted"`
	TotalLessons     int       `json:"totalLessons"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// UserProgress is the learner's full state. JSON tags mirror the blob the
// client holds, so an exported snapshot round-trips through import.
type UserProgress struct {
	CurrentPath      string                  `json:"currentPath,omitempty"`
	CompletedLessons []string                `json:"completedLessons"`
	QuizResults      map[string]QuizResult   `json:"quizResults"`
	TopicMastery     map[string]TopicMastery `json:"topicMastery"`
	LastActivity     *time.Time              `json:"lastActivity,omitempty"`
}

// CompletedSet returns completed lesson ids as a lookup set.
func (p UserProgress) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedLessons))
	for _, id := range p.CompletedLessons {
		set[id] = true
	}
	return set
}

// QuizSubmission is what a graded quiz hands back to the client: the
// percentage, the level it maps to, and the updated topic mastery.
type QuizSubmission struct {
	LessonID   string       `json:"lessonId"`
	Topic      string       `json:"topic"`
	Percentage int          `json:"percentage"`
	Level      MasteryLevel `json:"level"`
	Mastery    TopicMastery `json:"mastery"`
}

// QuizResultFilter narrows quiz history queries.
type QuizResultFilter struct {
	LearnerID int64
	Topic     string
	Since     *time.Time
	MinScore  *int
	MaxScore  *int
	Limit     int
	Offset    int
	OrderBy   string
	OrderDir  string
}
