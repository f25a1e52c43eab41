package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/repository"
)

type narrationRepository struct {
	db *sql.DB
}

// NewNarrationRepository creates a new NarrationRepository implementation
func NewNarrationRepository(db *sql.DB) repository.NarrationRepository {
	return &narrationRepository{db: db}
}

func (r *narrationRepository) Get(ctx context.Context, textHash string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("narration_repo")

	var audio []byte
	err := r.db.QueryRowContext(ctx, `SELECT audio FROM narration_cache WHERE text_hash = ?`, textHash).Scan(&audio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to read narration cache: %v", err)
		return nil, err
	}
	log.Debug("narration cache hit: %s (%d bytes)", textHash, len(audio))
	return audio, nil
}

func (r *narrationRepository) Put(ctx context.Context, textHash, voice string, audio []byte) error {
	log := logger.FromContext(ctx).WithPrefix("narration_repo")
	log.Debug("caching narration: %s, voice=%s, %d bytes", textHash, voice, len(audio))

	// Last write wins; payloads for the same hash are identical anyway.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO narration_cache (text_hash, voice, audio)
VALUES (?, ?, ?)
ON CONFLICT(text_hash) DO UPDATE SET voice = excluded.voice, audio = excluded.audio
`, textHash, voice, audio)
	if err != nil {
		log.Error("failed to cache narration: %v", err)
	}
	return err
}

func (r *narrationRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("narration_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM narration_cache WHERE created_at < ?`, before)
	if err != nil {
		log.Error("failed to prune narration cache: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Info("pruned %d cached narrations", n)
	}
	return n, nil
}
