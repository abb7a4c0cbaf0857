package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(50*1024*1024), cfg.Uploads.MaxFileSize)
	assert.Equal(t, "9671", cfg.Auth.AdminCode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.Auth.VerifyRateLimit)
}

func TestLoadConfig_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("DB_DRIVER", "mongo")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingMongoURI)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 90*time.Minute, cfg.Auth.SessionTTL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		anyErr  bool
	}{
		{name: "Valid sqlite", mutate: func(c *Config) {}},
		{name: "Unknown driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, anyErr: true},
		{name: "S3 without bucket", mutate: func(c *Config) { c.Uploads.Driver = "s3" }, wantErr: ErrMissingBucket},
		{name: "Zero upload size", mutate: func(c *Config) { c.Uploads.MaxFileSize = 0 }, anyErr: true},
		{name: "Zero session TTL", mutate: func(c *Config) { c.Auth.SessionTTL = 0 }, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Database.Driver = "sqlite"
			cfg.Uploads.Driver = "local"
			cfg.Uploads.MaxFileSize = 1024
			cfg.Auth.SessionTTL = time.Hour
			tt.mutate(cfg)

			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
