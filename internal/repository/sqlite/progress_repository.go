package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetProgress(ctx context.Context, learnerID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading progress: learner_id=%d", learnerID)

	progress := models.UserProgress{
		QuizResults:  make(map[string]models.QuizResult),
		TopicMastery: make(map[string]models.TopicMastery),
	}

	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT current_path, last_activity FROM learners WHERE id = ?
`, learnerID).Scan(&progress.CurrentPath, &lastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no learner for progress: id=%d", learnerID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load learner row: %v", err)
		return nil, err
	}
	if lastActivity.Valid {
		progress.LastActivity = &lastActivity.Time
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT lesson_id FROM completed_lessons WHERE learner_id = ? ORDER BY completed_at, lesson_id
`, learnerID)
	if err != nil {
		log.Error("failed to load completed lessons: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		progress.CompletedLessons = append(progress.CompletedLessons, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	quizRows, err := r.db.QueryContext(ctx, `
SELECT lesson_id, score, total_questions, completed_at FROM quiz_results WHERE learner_id = ?
`, learnerID)
	if err != nil {
		log.Error("failed to load quiz results: %v", err)
		return nil, err
	}
	defer quizRows.Close()
	for quizRows.Next() {
		var qr models.QuizResult
		if err := quizRows.Scan(&qr.LessonID, &qr.Score, &qr.TotalQuestions, &qr.CompletedAt); err != nil {
			return nil, err
		}
		progress.QuizResults[qr.LessonID] = qr
	}
	if err := quizRows.Err(); err != nil {
		return nil, err
	}

	masteryRows, err := r.db.QueryContext(ctx, `
SELECT topic, score, lessons_completed, total_lessons, last_updated FROM topic_mastery WHERE learner_id = ?
`, learnerID)
	if err != nil {
		log.Error("failed to load topic mastery: %v", err)
		return nil, err
	}
	defer masteryRows.Close()
	for masteryRows.Next() {
		var tm models.TopicMastery
		if err := masteryRows.Scan(&tm.Topic, &tm.Score, &tm.LessonsCompleted, &tm.TotalLessons, &tm.LastUpdated); err != nil {
			return nil, err
		}
		progress.TopicMastery[tm.Topic] = tm
	}
	if err := masteryRows.Err(); err != nil {
		return nil, err
	}

	log.Debug("progress loaded: %d completed, %d quiz results, %d topics",
		len(progress.CompletedLessons), len(progress.QuizResults), len(progress.TopicMastery))
	return &progress, nil
}

func (r *progressRepository) SaveQuizResult(ctx context.Context, learnerID int64, result models.QuizResult, mastery models.TopicMastery) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving quiz result: learner_id=%d, lesson=%s, score=%d/%d",
		learnerID, result.LessonID, result.Score, result.TotalQuestions)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
INSERT INTO quiz_results (learner_id, lesson_id, topic, score, total_questions, completed_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(learner_id, lesson_id) DO UPDATE SET
    topic = excluded.topic,
    score = excluded.score,
    total_questions = excluded.total_questions,
    completed_at = excluded.completed_at
`, learnerID, result.LessonID, mastery.Topic, result.Score, result.TotalQuestions, result.CompletedAt); err != nil {
			return err
		}

		if _, err := t.ExecContext(ctx, `
INSERT OR IGNORE INTO completed_lessons (learner_id, lesson_id, completed_at)
VALUES (?, ?, ?)
`, learnerID, result.LessonID, result.CompletedAt); err != nil {
			return err
		}

		if _, err := t.ExecContext(ctx, `
INSERT INTO topic_mastery (learner_id, topic, score, lessons_completed, total_lessons, last_updated)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(learner_id, topic) DO UPDATE SET
    score = excluded.score,
    lessons_completed = excluded.lessons_completed,
    total_lessons = excluded.total_lessons,
    last_updated = excluded.last_updated
`, learnerID, mastery.Topic, mastery.Score, mastery.LessonsCompleted, mastery.TotalLessons, mastery.LastUpdated); err != nil {
			return err
		}

		_, err := t.ExecContext(ctx, `UPDATE learners SET last_activity = ? WHERE id = ?`, result.CompletedAt, learnerID)
		return err
	})
}

func (r *progressRepository) ListQuizResults(ctx context.Context, filter models.QuizResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing quiz results: learner_id=%d, topic=%s", filter.LearnerID, filter.Topic)

	query := sqlBuilder.Select("lesson_id", "score", "total_questions", "completed_at").
		From("quiz_results").
		Where(squirrel.Eq{"learner_id": filter.LearnerID})

	// Dynamic WHERE clauses
	if filter.Topic != "" {
		query = query.Where(squirrel.Eq{"topic": filter.Topic})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"completed_at": *filter.Since})
	}
	if filter.MinScore != nil {
		query = query.Where(squirrel.GtOrEq{"score": *filter.MinScore})
	}
	if filter.MaxScore != nil {
		query = query.Where(squirrel.LtOrEq{"score": *filter.MaxScore})
	}

	// Safe ORDER BY with validation
	orderBy := "completed_at"
	if filter.OrderBy == "score" || filter.OrderBy == "lesson_id" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "asc" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build quiz results query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query quiz results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var qr models.QuizResult
		if err := rows.Scan(&qr.LessonID, &qr.Score, &qr.TotalQuestions, &qr.CompletedAt); err != nil {
			log.Error("failed to scan quiz result row: %v", err)
			return nil, err
		}
		results = append(results, qr)
	}
	log.Debug("found %d quiz results", len(results))
	return results, rows.Err()
}

func (r *progressRepository) ReplaceProgress(ctx context.Context, learnerID int64, progress models.UserProgress, lessonTopics map[string]string) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("replacing progress: learner_id=%d", learnerID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if err := deleteProgressRows(ctx, t, learnerID); err != nil {
			return err
		}

		for _, lessonID := range progress.CompletedLessons {
			completedAt := progress.LastActivity
			if qr, ok := progress.QuizResults[lessonID]; ok {
				completedAt = &qr.CompletedAt
			}
			if _, err := t.ExecContext(ctx, `
INSERT OR IGNORE INTO completed_lessons (learner_id, lesson_id, completed_at)
VALUES (?, ?, COALESCE(?, CURRENT_TIMESTAMP))
`, learnerID, lessonID, completedAt); err != nil {
				return err
			}
		}

		for _, qr := range progress.QuizResults {
			if _, err := t.ExecContext(ctx, `
INSERT INTO quiz_results (learner_id, lesson_id, topic, score, total_questions, completed_at)
VALUES (?, ?, ?, ?, ?, ?)
`, learnerID, qr.LessonID, lessonTopics[qr.LessonID], qr.Score, qr.TotalQuestions, qr.CompletedAt); err != nil {
				return err
			}
		}

		for _, tm := range progress.TopicMastery {
			if _, err := t.ExecContext(ctx, `
INSERT INTO topic_mastery (learner_id, topic, score, lessons_completed, total_lessons, last_updated)
VALUES (?, ?, ?, ?, ?, ?)
`, learnerID, tm.Topic, tm.Score, tm.LessonsCompleted, tm.TotalLessons, tm.LastUpdated); err != nil {
				return err
			}
		}

		_, err := t.ExecContext(ctx, `UPDATE learners SET current_path = ?, last_activity = ? WHERE id = ?`,
			progress.CurrentPath, progress.LastActivity, learnerID)
		return err
	})
}

func (r *progressRepository) Reset(ctx context.Context, learnerID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("resetting progress: learner_id=%d", learnerID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if err := deleteProgressRows(ctx, t, learnerID); err != nil {
			return err
		}
		_, err := t.ExecContext(ctx, `UPDATE learners SET current_path = '', last_activity = NULL WHERE id = ?`, learnerID)
		return err
	})
}

func deleteProgressRows(ctx context.Context, t *sql.Tx, learnerID int64) error {
	for _, table := range []string{"completed_lessons", "quiz_results", "topic_mastery"} {
		if _, err := t.ExecContext(ctx, `DELETE FROM `+table+` WHERE learner_id = ?`, learnerID); err != nil {
			return err
		}
	}
	return nil
}
