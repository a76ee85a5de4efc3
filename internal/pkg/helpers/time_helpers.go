package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DurationOr parses value as a duration and falls back when it is empty, malformed or not positive.
// setting names the config key in the warning.
func DurationOr(setting, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err == nil && d > 0 {
		return d
	}
	log.Warn().Err(err).
		Str("setting", setting).
		Str("value", value).
		Dur("fallback", fallback).
		Msg("Unusable duration, using fallback")
	return fallback
}
