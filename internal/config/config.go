package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Builder  BuilderConfig
	Preview  PreviewConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type BuilderConfig struct {
	HistoryLimit int
	SessionTTL   time.Duration
}

type PreviewConfig struct {
	Path      string
	Heartbeat time.Duration
	Staleness time.Duration
	LogFile   string
}

type AIConfig struct {
	Provider      string // "ollama" or "openai"
	Model         string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Builder: BuilderConfig{
			HistoryLimit: getEnvAsInt("BUILDER_HISTORY_LIMIT", 50),
			SessionTTL:   getEnvAsDuration("BUILDER_SESSION_TTL", 4*time.Hour),
		},
		Preview: PreviewConfig{
			Path:      getEnv("PREVIEW_PATH", "/preview"),
			Heartbeat: getEnvAsDuration("PREVIEW_HEARTBEAT", 30*time.Second),
			Staleness: getEnvAsDuration("PREVIEW_STALENESS", 5*time.Minute),
			LogFile:   getEnv("PREVIEW_LOG_FILE", "logs/preview.log"),
		},
		Ai: AIConfig{
			Provider:      getEnv("AI_PROVIDER", "ollama"),
			Model:         getEnv("AI_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
