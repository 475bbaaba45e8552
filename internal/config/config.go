package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string

	GoogleClientID     string
	GoogleClientSecret string
	AnthropicAPIKey    string
	AnthropicModel     string
	TranscribeURL      string

	CredentialInterval time.Duration
	RankingInterval    time.Duration
	DiscoveryInterval  time.Duration
}

// Load reads configuration from the environment (a .env file is honored when
// present). Missing required values are a startup-fatal configuration error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),

		GoogleClientID:     getEnv("CLIENT_ID", ""),
		GoogleClientSecret: getEnv("CLIENT_SECRET", ""),
		AnthropicAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		AnthropicModel:     getEnv("CLAUDE_MODEL", ""),
		TranscribeURL:      getEnv("TRANSCRIBE_URL", "https://youtube-transcribe.fly.dev/transcribe"),

		CredentialInterval: getDuration("CREDENTIAL_CHECK_INTERVAL", 15*time.Minute),
		RankingInterval:    getDuration("RANKING_SYNC_INTERVAL", time.Hour),
		DiscoveryInterval:  getDuration("VIDEO_DISCOVERY_INTERVAL", 6*time.Hour),
	}

	for _, req := range []struct{ name, value string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"CLIENT_ID", cfg.GoogleClientID},
		{"CLIENT_SECRET", cfg.GoogleClientSecret},
		{"CLAUDE_API_KEY", cfg.AnthropicAPIKey},
	} {
		if req.value == "" {
			return nil, fmt.Errorf("%w: %s is required", model.ErrConfiguration, req.name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
