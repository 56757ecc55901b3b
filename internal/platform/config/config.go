// Package config loads application settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"todo_backend/internal/platform/db"
	jwtmw "todo_backend/internal/platform/jwt"
)

// Config is the full application configuration. It is built once in main and passed down.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Redis    RedisConfig
	JWT      jwtmw.Config
	Auth     AuthConfig
	Tasks    TasksConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string
	GinMode            string
	CORSAllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Addr returns host:port for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type AuthConfig struct {
	// PasswordHasher selects the credential hasher ("sha256" or "bcrypt").
	PasswordHasher string
}

type TasksConfig struct {
	// ValidateOnUpdate applies the create-time validation rules to updates as well.
	ValidateOnUpdate bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			GinMode:            getEnv("GIN_MODE", "debug"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		},
		Database: db.LoadConfigFromEnv(),
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("TASK_CACHE_TTL", 5*time.Minute),
		},
		JWT: jwtmw.Config{
			Secret:     getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", jwtmw.DefaultIssuer),
			Audience:   getEnv("JWT_AUDIENCE", jwtmw.DefaultAudience),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", time.Hour),
		},
		Auth: AuthConfig{
			PasswordHasher: getEnv("PASSWORD_HASHER", "sha256"),
		},
		Tasks: TasksConfig{
			ValidateOnUpdate: getEnvAsBool("TASK_VALIDATE_ON_UPDATE", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings such as "15m" or "24h".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value and drops empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
