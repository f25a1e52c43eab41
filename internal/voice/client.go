// Package voice synthesizes speech through an OpenAI-compatible API.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
)

// Client converts text into audio.
type Client interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Model() string
	Voice() string
}

// Config holds speech synthesis settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

type openAIClient struct {
	client *openai.Client
	model  string
	voice  string
}

// NewClient creates a speech client. Returns an error when no API key
// is configured; callers treat that as speech being disabled.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("speech API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		voice:  cfg.Voice,
	}, nil
}

func (c *openAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("voice")
	log.Debug("synthesizing %d chars, model=%s, voice=%s", len(text), c.model, c.voice)

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          text,
		Voice:          openai.SpeechVoice(c.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		log.Error("speech synthesis failed: %v", err)
		return nil, mapAPIError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		log.Error("failed to read speech response: %v", err)
		return nil, err
	}
	log.Debug("synthesized %d bytes", len(audio))
	return audio, nil
}

func (c *openAIClient) Model() string { return c.model }
func (c *openAIClient) Voice() string { return c.voice }

func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return apperrors.NewUnavailableError("speech", err)
		}
	}
	return err
}
