package services

import "time"

// CardServiceConfig holds tunables for the rating engine.
type CardServiceConfig struct {
	StoreTimeout     time.Duration // applied to every store call, 0 = caller's deadline only
	LeaderboardLimit int           // used when a caller passes limit <= 0
}

// DefaultCardServiceConfig mirrors the configuration defaults.
func DefaultCardServiceConfig() CardServiceConfig {
	return CardServiceConfig{
		StoreTimeout:     5 * time.Second,
		LeaderboardLimit: 20,
	}
}
