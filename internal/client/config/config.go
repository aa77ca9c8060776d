package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the weightkeeper CLI.
//
// Fields:
//   - DataDir: directory holding the SQLite database and the device key.
//   - SettleDelay: pause between the fifth digit and its evaluation.
//   - BiometricKind: simulated sensor ("fingerprint", "face"), "none" for a
//     device without one, or "off" to disable biometrics entirely.
//   - BiometricEnrolled: whether the simulated sensor has enrolled credentials.
//   - BiometricResult: the verdict the simulated sensor delivers.
//   - BiometricLatency: how long the simulated prompt takes to answer.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DataDir           string
	SettleDelay       time.Duration
	BiometricKind     string
	BiometricEnrolled bool
	BiometricResult   string
	BiometricLatency  time.Duration
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.SettleDelay = 200 * time.Millisecond
	c.BiometricKind = "none"
	c.BiometricEnrolled = true
	c.BiometricResult = "success"
	c.BiometricLatency = time.Second
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c or
// -config, then command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "weightkeeper")
	}
	return ".weightkeeper"
}
