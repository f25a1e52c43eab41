package worker

import (
	"context"

	"github.com/sgharlow/adaptlearn/internal/logger"
)

// NarrationPrefetchJob synthesizes a voice line into the narration
// cache ahead of playback, so the next recommendation announcement
// streams without a synthesis round trip.
type NarrationPrefetchJob struct {
	NarrationService NarrationServiceInterface
	Text             string
}

func (j *NarrationPrefetchJob) Name() string { return "narration_prefetch" }

func (j *NarrationPrefetchJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug("prefetching narration: %d chars", len(j.Text))

	// Narrate writes through to the cache; the audio itself is discarded.
	_, err := j.NarrationService.Narrate(ctx, j.Text)
	return err
}
