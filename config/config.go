package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingMongoURI  = errors.New("MONGO_URI environment variable is not set")
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")
)

type Config struct {
	Env  string
	Mode string
	Port string

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTExpiry time.Duration

	RedisAddr string

	StorageBackend string
	UploadDir      string
	GCSBucket      string

	CORSOrigins    []string
	AuthRatePerMin int
	LogLevel       string
	SentryDSN      string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	ExpiryInterval time.Duration

	AdminEmail    string
	AdminPassword string
	SeedFile      string
}

// Load reads the environment. Call godotenv.Load first to pick up .env.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Mode: getEnv("APP_MODE", "server"),
		Port: getEnv("PORT", "8080"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "jobboard"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h"), 720*time.Hour),

		RedisAddr: firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),

		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
		AuthRatePerMin: parseInt(getEnv("AUTH_RATE_PER_MIN", "30"), 30),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),

		ReadTimeout:  parseDuration(getEnv("SERVER_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "60s"), 60*time.Second),

		ExpiryInterval: parseDuration(getEnv("JOB_EXPIRY_INTERVAL", "10m"), 10*time.Minute),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SeedFile:      getEnv("SEED_FILE", "seed.yaml"),
	}

	if cfg.MongoURI == "" {
		return cfg, ErrMissingMongoURI
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}
	if cfg.StorageBackend == "gcs" && cfg.GCSBucket == "" {
		return cfg, errors.New("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
	}
	return cfg, nil
}

// Serverless reports whether the process may start without a database.
func (c *Config) Serverless() bool { return c.Mode == "serverless" }

func (c *Config) IsProduction() bool { return c.Env == "production" }

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := strings.TrimSpace(os.Getenv(k)); val != "" {
			return val
		}
	}
	return ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && part != "*" {
			out = append(out, part)
		}
	}
	return out
}
