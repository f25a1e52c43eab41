package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	ContentDir           string
	LogLevel             string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	SpeechModel          string
	SpeechVoice          string
	ChatModel            string
	NarrationWorkerCount int
	NarrationQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:adaptlearn.db"),
		ContentDir:           envOr("CONTENT_DIR", "content"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		OpenAIAPIKey:         envOr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        envOr("OPENAI_BASE_URL", ""),
		SpeechModel:          envOr("SPEECH_MODEL", "tts-1"),
		SpeechVoice:          envOr("SPEECH_VOICE", "nova"),
		ChatModel:            envOr("CHAT_MODEL", "gpt-4o-mini"),
		NarrationWorkerCount: envIntOr("NARRATION_WORKER_COUNT", 2),
		NarrationQueueSize:   envIntOr("NARRATION_QUEUE_SIZE", 32),
	}
}

// Validate checks that the configuration is usable. Speech settings are
// not validated here: an empty API key only disables the speech and tutor
// endpoints.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ContentDir == "" {
		return fmt.Errorf("CONTENT_DIR cannot be empty")
	}
	if c.NarrationWorkerCount <= 0 {
		return fmt.Errorf("NARRATION_WORKER_COUNT must be positive")
	}
	if c.NarrationQueueSize <= 0 {
		return fmt.Errorf("NARRATION_QUEUE_SIZE must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
