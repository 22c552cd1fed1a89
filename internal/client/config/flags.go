package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Arguments are filtered with flagx.FilterArgs first so that -c/-config
// does not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-t", "-u", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server API")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "local database file")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	uploadTimeout := fs.Int("u", int(cfg.UploadTimeout.Seconds()), "upload timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	checkInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.UploadTimeout = time.Duration(*uploadTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*checkInterval) * time.Second
}
