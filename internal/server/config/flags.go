package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-d string   PostgreSQL DSN; empty keeps users in memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-k string   storage backend: s3 or gcs
//	-u string   static access key id
//	-p string   static secret access key
//	-b string   bucket name
//	-g string   region
//	-e string   base endpoint (e.g. "http://127.0.0.1:9000")
//	-m int      max upload size, bytes
//	-l string   log level
//
// Only these flags are considered; os.Args is filtered with flagx.FilterArgs
// first so that -c/-config and foreign flags do not break parsing.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-k", "-u", "-p", "-b", "-g", "-e", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (s3|gcs)")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "static access key id")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "static secret access key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "base endpoint")
	fs.Int64Var(&config.MaxUploadBytes, "m", config.MaxUploadBytes, "max upload size (bytes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
}
