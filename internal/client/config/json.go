package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/weightkeeper/internal/flagx"
	"github.com/dmitrijs2005/weightkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key apart from a zero value.
type JsonConfig struct {
	DataDir           *string         `json:"data_dir"`
	SettleDelay       *timex.Duration `json:"settle_delay"`
	BiometricKind     *string         `json:"biometric_kind"`
	BiometricEnrolled *bool           `json:"biometric_enrolled"`
	BiometricResult   *string         `json:"biometric_result"`
	BiometricLatency  *timex.Duration `json:"biometric_latency"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file given by -c/-config in args. It
// does nothing when no file is named.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.SettleDelay != nil {
		cfg.SettleDelay = jc.SettleDelay.Duration
	}
	if jc.BiometricKind != nil {
		cfg.BiometricKind = *jc.BiometricKind
	}
	if jc.BiometricEnrolled != nil {
		cfg.BiometricEnrolled = *jc.BiometricEnrolled
	}
	if jc.BiometricResult != nil {
		cfg.BiometricResult = *jc.BiometricResult
	}
	if jc.BiometricLatency != nil {
		cfg.BiometricLatency = jc.BiometricLatency.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
