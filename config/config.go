package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	AnthropicKey string
	ModelURL     string
	Model        string
	MaxTokens    int
	Temperature  float64
	ModelTimeout time.Duration

	SlackToken     string
	SlackChannelID string
}

// LoadConfig loads configuration from environment variables.
// It first tries to load from .env file, then falls back to system
// environment variables. DATABASE_URL is optional: without it the
// service runs on the in-memory registry.
func LoadConfig() *Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ModelURL:       getEnv("MODEL_URL", "https://api.anthropic.com/v1/messages"),
		Model:          getEnv("MODEL_NAME", "claude-sonnet-4-5-20250929"),
		MaxTokens:      getEnvInt("MODEL_MAX_TOKENS", 4000),
		Temperature:    getEnvFloat("MODEL_TEMPERATURE", 0.7),
		ModelTimeout:   time.Duration(getEnvInt("MODEL_TIMEOUT_SECONDS", 120)) * time.Second,
		SlackToken:     getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannelID: getEnv("SLACK_CHANNEL_ID", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: %s is not an integer, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: %s is not a number, using default %g", key, defaultValue)
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.AnthropicKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.SlackToken != "" && c.SlackChannelID == "" {
		return fmt.Errorf("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set")
	}
	return nil
}

// SlackEnabled reports whether the optional Slack notifier is configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackToken != "" && c.SlackChannelID != ""
}
