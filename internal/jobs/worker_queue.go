package jobs

import (
	"github.com/sgharlow/adaptlearn/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	narration worker.NarrationServiceInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, narration worker.NarrationServiceInterface) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		narration: narration,
	}
}

func (q *WorkerQueue) EnqueueNarration(text string) error {
	if text == "" {
		return nil
	}
	return q.pool.Submit(&worker.NarrationPrefetchJob{
		NarrationService: q.narration,
		Text:             text,
	})
}
