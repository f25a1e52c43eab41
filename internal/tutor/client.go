// Package tutor answers learner questions about a lesson through an
// OpenAI-compatible chat completion API.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/sgharlow/adaptlearn/internal/errors"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
)

// Client answers a free-form question grounded in a lesson.
type Client interface {
	Ask(ctx context.Context, lesson models.Lesson, question string) (string, error)
}

// Config holds chat completion settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type openAIClient struct {
	client *openai.Client
	model  string
}

// NewClient creates a tutor client. Returns an error when no API key is
// configured; callers treat that as the tutor being disabled.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tutor API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

func (c *openAIClient) Ask(ctx context.Context, lesson models.Lesson, question string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("tutor")
	log.Debug("asking about lesson %s: %d chars", lesson.ID, len(question))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(lesson),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		log.Error("chat completion failed: %v", err)
		return "", mapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(lesson models.Lesson) string {
	var sb strings.Builder
	sb.WriteString("You are a patient tutor in an audio-first learning app. ")
	sb.WriteString("Answer in short spoken-style sentences suitable for text-to-speech. ")
	sb.WriteString(fmt.Sprintf("The learner is studying the lesson %q in the topic %q.", lesson.Title, lesson.Topic))
	if lesson.Description != "" {
		sb.WriteString(" Lesson summary: ")
		sb.WriteString(lesson.Description)
	}
	return sb.String()
}

func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return apperrors.NewUnavailableError("tutor", err)
		}
	}
	return err
}
