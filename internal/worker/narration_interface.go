package worker

import "context"

// NarrationServiceInterface is what prefetch jobs need from the
// narration service. Declared here to avoid an import cycle with
// the services package.
type NarrationServiceInterface interface {
	Narrate(ctx context.Context, text string) ([]byte, error)
}
