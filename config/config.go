package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
// In dev a .env file is loaded first; in release the environment wins.
type Config struct {
	Env            string
	ListenAddr     string
	AllowedOrigins []string

	PostgresURL string
	JWTKey      string
	TokenAge    time.Duration

	RoundDuration         time.Duration
	FirstCorrectEndsRound bool
}

func Load() Config {
	if os.Getenv("APP_ENV") != "release" {
		// best effort, the file may not exist
		_ = godotenv.Load()
	}

	cfg := Config{
		Env:         getEnv("APP_ENV", "dev"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":5000"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		JWTKey:      os.Getenv("JWT_KEY"),
		TokenAge:    time.Hour * 24 * 7,
	}

	cfg.AllowedOrigins = splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))
	cfg.RoundDuration = time.Duration(getEnvInt("ROUND_DURATION_SECONDS", 60)) * time.Second
	cfg.FirstCorrectEndsRound = getEnv("FIRST_CORRECT_ENDS_ROUND", "true") != "false"

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
