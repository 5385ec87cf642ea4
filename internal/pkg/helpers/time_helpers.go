package helpers

import (
	"time"

	"github.com/yigit/acroconnect/internal/pkg/logger"
)

// ParseDuration parses a configured duration, falling back to defaultDuration (with a
// warning naming the setting) when the value is empty or malformed.
func ParseDuration(setting, value string, defaultDuration time.Duration) time.Duration {
	if value == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		logger.Warn().Err(err).
			Str("setting", setting).
			Str("value", value).
			Dur("default", defaultDuration).
			Msg("Failed to parse duration setting, using default")
		return defaultDuration
	}
	return duration
}
