package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var (
	ErrMissingMongoURI = errors.New("MONGODB_URI is not defined in environment variables")
	ErrMissingBucket   = errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
)

type Config struct {
	Server struct {
		Port    string `env:"PORT" envDefault:"3000"`
		GinMode string `env:"GIN_MODE" envDefault:"release"`

		// Allowed CORS origins, comma separated. Empty disables CORS headers.
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

		// Upper bound for a whole request body (all files of a form together)
		MaxBodyBytes int64 `env:"MAX_BODY_SIZE" envDefault:"268435456"`

		PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`
		ImagesDir string `env:"IMAGES_DIR" envDefault:"images"`
		IconsDir  string `env:"ICONS_DIR" envDefault:"icons"`
		RerasDir  string `env:"RERAS_DIR" envDefault:"reras"`
	}

	Database struct {
		// Either "mongo" or "sqlite"
		Driver        string `env:"DB_DRIVER" envDefault:"mongo"`
		MongoURI      string `env:"MONGODB_URI"`
		MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"propertyhub"`
		SQLitePath    string `env:"SQLITE_PATH" envDefault:"database/propertyhub.db"`
	}

	Uploads struct {
		// Either "local" or "s3"
		Driver      string `env:"STORAGE_DRIVER" envDefault:"local"`
		Dir         string `env:"UPLOADS_DIR" envDefault:"uploads"`
		MaxFileSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"52428800"`

		S3 struct {
			Bucket       string `env:"S3_BUCKET"`
			Region       string `env:"S3_REGION" envDefault:"us-east-1"`
			Endpoint     string `env:"S3_ENDPOINT"`
			AccessKey    string `env:"S3_ACCESS_KEY"`
			SecretKey    string `env:"S3_SECRET_KEY"`
			UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
			KeyPrefix    string `env:"S3_KEY_PREFIX" envDefault:"uploads"`
		}
	}

	Auth struct {
		AdminCode string `env:"ADMIN_CODE" envDefault:"9671"`

		// bcrypt hash of the admin code; takes precedence over ADMIN_CODE when set
		AdminCodeHash string `env:"ADMIN_CODE_HASH"`

		SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
		CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

		// Sessions live in Redis when set, in process memory otherwise
		RedisURL string `env:"REDIS_URL"`

		// Code submissions allowed per client IP and minute
		VerifyRateLimit int `env:"VERIFY_RATE_LIMIT" envDefault:"10"`
	}

	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mongo":
		if c.Database.MongoURI == "" {
			return ErrMissingMongoURI
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Uploads.Driver {
	case "local":
	case "s3":
		if c.Uploads.S3.Bucket == "" {
			return ErrMissingBucket
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Uploads.Driver)
	}

	if c.Uploads.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.Uploads.MaxFileSize)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	return nil
}
