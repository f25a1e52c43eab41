package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/repository"
	"github.com/sgharlow/adaptlearn/internal/voice"
)

// NarrationService turns text into audio, caching synthesized clips by
// content hash so repeated announcements never hit the speech API twice.
type NarrationService interface {
	Narrate(ctx context.Context, text string) ([]byte, error)
	Enabled() bool
}

type narrationService struct {
	cache  repository.NarrationRepository
	client voice.Client
}

// NewNarrationService creates a new NarrationService. The voice client
// may be nil when speech is not configured.
func NewNarrationService(cache repository.NarrationRepository, client voice.Client) NarrationService {
	return &narrationService{cache: cache, client: client}
}

func (s *narrationService) Enabled() bool {
	return s.client != nil
}

func (s *narrationService) Narrate(ctx context.Context, text string) ([]byte, error) {
	log := logger.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("text", "must not be empty")
	}
	if len(text) > 4096 {
		return nil, errors.NewValidationError("text", "must be at most 4096 characters")
	}
	if s.client == nil {
		return nil, errors.NewUnavailableError("speech", nil)
	}

	hash := s.cacheKey(text)
	cached, err := s.cache.Get(ctx, hash)
	if err != nil {
		log.Warn("narration cache read failed: %v", err)
	}
	if cached != nil {
		log.Debug("serving narration from cache: %s", hash)
		return cached, nil
	}

	audio, err := s.client.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, hash, s.client.Voice(), audio); err != nil {
		log.Warn("narration cache write failed: %v", err)
	}
	return audio, nil
}

// cacheKey hashes model, voice, and text together so changing either
// synthesis setting invalidates old clips.
func (s *narrationService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.client.Model() + "|" + s.client.Voice() + "|" + text))
	return hex.EncodeToString(sum[:])
}
