package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultDatabaseURL = "estatehub.db"

type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"5000"`

	// DatabaseURL selects the property store. A mongodb:// or mongodb+srv:// URL uses MongoDB,
	// anything else is handed to the sqlite driver as a DSN.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// MongoURI is only consulted when DatabaseURL is empty.
	MongoURI string `envconfig:"MONGODB_URI"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"uploads"`
	UploadBackend string `envconfig:"UPLOAD_BACKEND" default:"local"`

	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint        string `envconfig:"S3_ENDPOINT"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`

	// BodyLimit caps request bodies. Uploads carry no size policy of their own.
	BodyLimit int `envconfig:"BODY_LIMIT" default:"67108864"`

	LogFile         string        `envconfig:"LOG_FILE"`
	DevMode         bool          `envconfig:"DEV_MODE"`
	MetricsEnabled  bool          `envconfig:"METRICS_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.MongoURI
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	switch cfg.UploadBackend {
	case "local", "s3":
	default:
		return nil, fmt.Errorf("failed to parse configuration: unknown UPLOAD_BACKEND %q", cfg.UploadBackend)
	}
	if cfg.UploadBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("failed to parse configuration: S3_BUCKET is required when UPLOAD_BACKEND=s3")
	}
	return &cfg, nil
}

func (c *Config) ListenAddr() string {
	return ":" + c.Port
}
