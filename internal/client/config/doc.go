// Package config loads runtime configuration for the admin console.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   backend base URL
//	-d string   local SQLite database path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:3000",
//	  "db_path": "gophadmin.db",
//	  "request_timeout": "15s",
//	  "log_level": "info"
//	}
package config
