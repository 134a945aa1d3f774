package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	HTTP struct {
		Host           string
		Port           string
		RateLimitRPS   float64
		RateLimitBurst int
	}

	Scoring struct {
		Workers           int
		JobTimeout        time.Duration
		WritesPerSecond   float64
		DiscoveryInterval time.Duration
		TrendingInterval  time.Duration
	}

	Tracking struct {
		Retention     time.Duration
		PurgeInterval time.Duration
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "ranking")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	}
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "telofundi")

		if cfg.DB.Driver == "sqlite" {
			cfg.DB.DSN = cfg.DB.Name + ".db"
		} else {
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")
	cfg.HTTP.RateLimitRPS = getEnvFloat("HTTP_RATE_LIMIT_RPS", 20)
	cfg.HTTP.RateLimitBurst = getEnvInt("HTTP_RATE_LIMIT_BURST", 40)

	// Scoring jobs
	cfg.Scoring.Workers = getEnvInt("SCORING_WORKERS", 4)
	cfg.Scoring.JobTimeout = getEnvDuration("SCORING_JOB_TIMEOUT", 10*time.Minute)
	cfg.Scoring.WritesPerSecond = getEnvFloat("SCORING_WRITES_PER_SECOND", 0)
	cfg.Scoring.DiscoveryInterval = getEnvDuration("SCORING_DISCOVERY_INTERVAL", time.Hour)
	cfg.Scoring.TrendingInterval = getEnvDuration("SCORING_TRENDING_INTERVAL", 15*time.Minute)

	// Interaction tracking
	cfg.Tracking.Retention = getEnvDuration("INTERACTION_RETENTION", 365*24*time.Hour)
	cfg.Tracking.PurgeInterval = getEnvDuration("INTERACTION_PURGE_INTERVAL", 24*time.Hour)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return v
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(getEnvDefault(k, ""), 64); err == nil {
		return v
	}
	return def
}

// getEnvDuration accepts Go duration strings ("15m") or plain seconds.
func getEnvDuration(k string, def time.Duration) time.Duration {
	raw := getEnvDefault(k, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
