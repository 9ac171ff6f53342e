package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	HTTP struct {
		Addr           string
		AllowedOrigins []string
	}

	Hub struct {
		GraceInterval time.Duration
		SendBuffer    int
		StatsInterval time.Duration
	}

	DB struct {
		DSN string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	JWTSecret string
}

// New reads the configuration from the environment, falling back to
// development defaults.
func New() *Config {
	cfg := &Config{}

	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "videomatch")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	cfg.HTTP.Addr = ":" + getEnvDefault("PORT", "8080")
	cfg.HTTP.AllowedOrigins = splitList(getEnvDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.Hub.GraceInterval = getDurationDefault("GRACE_INTERVAL", DefaultGraceInterval)
	cfg.Hub.SendBuffer = getIntDefault("CLIENT_SEND_BUFFER", DefaultClientSendBuffer)
	cfg.Hub.StatsInterval = getDurationDefault("STATS_INTERVAL", DefaultStatsInterval)

	cfg.DB.DSN = getEnvDefault("DATABASE_DSN",
		"host=localhost user=user password=password dbname=videomatch port=5432 sslmode=disable")

	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getIntDefault("REDIS_DB", 0)

	cfg.JWTSecret = getEnvDefault("JWT_SECRET", "change-me")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getIntDefault(k string, def int) int {
	if v, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return v
	}
	return def
}

// getDurationDefault accepts Go duration strings ("1500ms") or plain
// milliseconds ("1500").
func getDurationDefault(k string, def time.Duration) time.Duration {
	raw := getEnvDefault(k, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
