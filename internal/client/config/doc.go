// Package config loads runtime configuration for the weightkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string     data directory
//	-s duration   settle delay after the fifth digit, e.g. 200ms
//	-b string     biometric sensor: none, off, fingerprint or face
//	-e bool       simulated sensor has enrolled credentials (use -e=false)
//	-r string     simulated verdict: success, cancel, not_enrolled, lockout, error
//	-t duration   simulated prompt latency
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "200ms" or
// integer nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "data_dir": "/home/me/.config/weightkeeper",
//	  "settle_delay": "200ms",
//	  "biometric_kind": "fingerprint",
//	  "biometric_enrolled": true,
//	  "biometric_result": "success",
//	  "biometric_latency": "1s",
//	  "log_level": "info"
//	}
//
// Environment variables are not read.
package config
