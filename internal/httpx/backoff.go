package httpx

import "time"

// BackoffConfig controls exponential retry backoff.
type BackoffConfig struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// Backoff returns the delay before the given retry attempt (1-based).
// Delays grow as baseDelay * multiplier * 2^(attempt-1), capped at MaxDelay.
func Backoff(config BackoffConfig, attempt int) time.Duration {
	if attempt <= 0 {
		return config.BaseDelay
	}
	// cap the shift to keep the multiplication in range
	if attempt > 30 {
		attempt = 30
	}
	multiplier := float64(int(1)<<uint(attempt-1)) * config.Multiplier
	delay := time.Duration(float64(config.BaseDelay) * multiplier)
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}
