// Package config loads runtime configuration for the nkitsi CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the HTTP API
//	-f string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-u int      upload timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "database_path": "nkitsi.db",
//	  "request_timeout": "10s",
//	  "upload_timeout": "2m"
//	}
package config
