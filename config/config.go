package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// Gemini
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTemperature float64
	// Persistence (optional, portfolios are not stored when empty)
	DatabaseURL   string
	RunMigrations bool
	// Rendering
	ChromePath string
	// Chat
	MemoryWindow int
	// HTTP
	BodyLimitMB int
	LogLevel    string
}

func LoadConfig() (*Config, error) {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTemperature: getEnvFloat("GEMINI_TEMPERATURE", 0.1),
		DatabaseURL:       strings.TrimSpace(getEnv("DATABASE_URL", "")),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		ChromePath:        getEnv("CHROME_PATH", ""),
		MemoryWindow:      getEnvInt("MEMORY_WINDOW", 10),
		BodyLimitMB:       getEnvInt("BODY_LIMIT_MB", 12), // base64 resume images are large
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY is missing. Model calls will fail.")
	}
	if cfg.DatabaseURL == "" {
		log.Println("WARNING: DATABASE_URL not configured. Portfolios will not be persisted.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
