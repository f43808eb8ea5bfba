package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string
	Env     string
	LogMode string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Schedules: redis, postgres or memory
	ScheduleStore string

	// Watch tracking
	WatchCompletionThreshold int
	WatchSessionTTLMinutes   int
	YouTubeLookup            bool

	// Background work
	ReviewReminderIntervalMinutes int
	WorkerCount                   int

	QuizRatePerMinute int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                          getEnvOrDefault("PORT", "8080"),
		Env:                           getEnvOrDefault("ENV", "development"),
		LogMode:                       getEnvOrDefault("LOG_MODE", "development"),
		DatabaseURL:                   mustGetEnv("DATABASE_URL"),
		RedisURL:                      mustGetEnv("REDIS_URL"),
		JWTSecret:                     mustGetEnv("JWT_SECRET"),
		ScheduleStore:                 strings.ToLower(getEnvOrDefault("SCHEDULE_STORE", "redis")),
		WatchCompletionThreshold:      getEnvAsIntOrDefault("WATCH_COMPLETION_THRESHOLD", 80),
		WatchSessionTTLMinutes:        getEnvAsIntOrDefault("WATCH_SESSION_TTL_MINUTES", 120),
		YouTubeLookup:                 getEnvAsBoolOrDefault("YOUTUBE_LOOKUP", true),
		ReviewReminderIntervalMinutes: getEnvAsIntOrDefault("REVIEW_REMINDER_INTERVAL_MINUTES", 60),
		WorkerCount:                   getEnvAsIntOrDefault("WORKER_COUNT", 2),
		QuizRatePerMinute:             getEnvAsIntOrDefault("QUIZ_RATE_PER_MINUTE", 30),
		FrontendURL:                   getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	switch cfg.ScheduleStore {
	case "redis", "postgres", "memory":
	default:
		panic(fmt.Sprintf("SCHEDULE_STORE must be redis, postgres or memory, got %q", cfg.ScheduleStore))
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
