// Package config handles configuration for the server: defaults, then an
// optional JSON file, then the environment (.env included), then flags.
package config

import (
	"os"
	"time"
)

const (
	StorageBackendS3  = "s3"
	StorageBackendGCS = "gcs"
)

// Config holds runtime settings for the nkitsi server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps the credential store in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - StorageBackend: "s3" or "gcs".
//   - S3AccessKey / S3SecretKey: optional static credentials; empty means the
//     SDK's default provider chain (env, shared file, role).
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. The
//     bucket name is reused as the GCS bucket when StorageBackend is "gcs".
//   - MaxUploadBytes: largest accepted multipart request.
//   - UploadTimeout: bound on a single content store write.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	StorageBackend               string
	S3AccessKey                  string
	S3SecretKey                  string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
	MaxUploadBytes               int64
	UploadTimeout                time.Duration
	ShutdownTimeout              time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.RefreshTokenValidityDuration = 30 * 24 * time.Hour
	c.StorageBackend = StorageBackendS3
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.S3Bucket = "nkitsi-user-files"
	c.S3Region = "eu-north-1"
	c.S3BaseEndpoint = ""
	c.MaxUploadBytes = 32 << 20
	c.UploadTimeout = 2 * time.Minute
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the JSON file named by -c/-config,
// the environment and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
