package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/weightkeeper/internal/flagx"
)

var ownFlags = []string{"-d", "-s", "-b", "-e", "-r", "-t", "-l"}

// parseFlags overlays cfg with the flags listed in doc.go. Other flags in
// args, such as -c, are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("weightkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.DurationVar(&cfg.SettleDelay, "s", cfg.SettleDelay, "settle delay after the fifth digit")
	fs.StringVar(&cfg.BiometricKind, "b", cfg.BiometricKind, "biometric sensor: none, off, fingerprint, face")
	fs.BoolVar(&cfg.BiometricEnrolled, "e", cfg.BiometricEnrolled, "simulated sensor has enrolled credentials")
	fs.StringVar(&cfg.BiometricResult, "r", cfg.BiometricResult, "simulated verdict")
	fs.DurationVar(&cfg.BiometricLatency, "t", cfg.BiometricLatency, "simulated prompt latency")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}
