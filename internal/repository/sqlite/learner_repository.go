package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
	"github.com/sgharlow/adaptlearn/internal/repository"
)

type learnerRepository struct {
	db *sql.DB
}

// NewLearnerRepository creates a new LearnerRepository implementation
func NewLearnerRepository(db *sql.DB) repository.LearnerRepository {
	return &learnerRepository{db: db}
}

func (r *learnerRepository) Get(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("getting learner: id=%d", id)

	var l models.Learner
	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, current_path, created_at, last_activity
FROM learners
WHERE id = ?
`, id).Scan(&l.ID, &l.Name, &l.CurrentPath, &l.CreatedAt, &lastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("learner not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, err
	}
	if lastActivity.Valid {
		l.LastActivity = &lastActivity.Time
	}
	return &l, nil
}

func (r *learnerRepository) List(ctx context.Context) ([]models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("listing learners")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, current_path, created_at, last_activity
FROM learners
ORDER BY name
`)
	if err != nil {
		log.Error("failed to list learners: %v", err)
		return nil, err
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var l models.Learner
		var lastActivity sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &l.CurrentPath, &l.CreatedAt, &lastActivity); err != nil {
			log.Error("failed to scan learner row: %v", err)
			return nil, err
		}
		if lastActivity.Valid {
			l.LastActivity = &lastActivity.Time
		}
		learners = append(learners, l)
	}
	log.Debug("found %d learners", len(learners))
	return learners, rows.Err()
}

func (r *learnerRepository) Upsert(ctx context.Context, name string) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("upserting learner: name=%s", name)

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO learners (name) VALUES (?)
ON CONFLICT(name) DO UPDATE SET name = excluded.name
RETURNING id
`, name).Scan(&id)
	if err != nil {
		log.Error("failed to upsert learner: %v", err)
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *learnerRepository) SetCurrentPath(ctx context.Context, id int64, pathID string) error {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("setting current path: learner_id=%d, path=%s", id, pathID)

	_, err := r.db.ExecContext(ctx, `UPDATE learners SET current_path = ? WHERE id = ?`, pathID, id)
	if err != nil {
		log.Error("failed to set current path: %v", err)
	}
	return err
}

func (r *learnerRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("deleting learner: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM learners WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete learner: %v", err)
	}
	return err
}
