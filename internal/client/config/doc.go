// Package config loads runtime configuration for the mycolog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-d string   path of the local SQLite database file
//	-s int      background sync interval (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5m" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://api.mycolog.app",
//	  "database_path": "mycolog.db",
//	  "sync_interval": "5m",
//	  "online_check_interval": "3s",
//	  "max_photo_dim": 1600,
//	  "jpeg_quality": 82
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
