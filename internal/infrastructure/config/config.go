package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Media MediaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cyber_backend"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MediaConfig selects and configures the media store driver.
type MediaConfig struct {
	// Driver is "minio" or "local".
	Driver string `env:"MEDIA_DRIVER, default=local"`

	// Local driver settings.
	LocalDir string `env:"MEDIA_LOCAL_DIR, default=./uploads"`
	// BaseURL prefixes generated URLs for locally stored files.
	BaseURL string `env:"MEDIA_BASE_URL, default=/media"`

	// MinIO driver settings.
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET, default=uploads"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
// Secrets are required startup invariants: a missing JWT secret is a fatal
// configuration error, never defaulted.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.Media.Driver == "minio" && (cfg.Media.MinioEndpoint == "" || cfg.Media.MinioAccessKey == "" || cfg.Media.MinioSecretKey == "") {
		return nil, fmt.Errorf("config: MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio media driver")
	}
	return &cfg, nil
}
