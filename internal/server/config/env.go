package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server understands. The
// AWS SDK reads AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_PROFILE on
// its own; they are not duplicated here.
type EnvConfig struct {
	Port                         string        `env:"PORT"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	SecretKey                    string        `env:"JWT_SECRET"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	StorageBackend               string        `env:"STORAGE_BACKEND"`
	S3Bucket                     string        `env:"S3_BUCKET"`
	S3Region                     string        `env:"AWS_REGION"`
	S3BaseEndpoint               string        `env:"S3_ENDPOINT"`
	MaxUploadBytes               int64         `env:"MAX_UPLOAD_BYTES"`
	UploadTimeout                time.Duration `env:"UPLOAD_TIMEOUT"`
	LogLevel                     string        `env:"LOG_LEVEL"`
}

// dotenvFile is loaded before the environment is read, if present.
var dotenvFile = ".env"

// parseEnv overlays set, non-empty environment variables. Variables already
// present in the process environment win over the .env file.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + e.Port
	}
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, e.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, e.RefreshTokenValidityDuration)
	setString(&config.StorageBackend, e.StorageBackend)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	if e.MaxUploadBytes > 0 {
		config.MaxUploadBytes = e.MaxUploadBytes
	}
	setDuration(&config.UploadTimeout, e.UploadTimeout)
	setString(&config.LogLevel, e.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
