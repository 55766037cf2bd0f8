package game

import "time"

// Config carries the tunable rule and timing parameters of a session.
type Config struct {
	BaseTimeMs   int64
	IncrementMs  int64
	StartingGold int
	BaseIncome   int
	TimerTick    time.Duration
}

// DefaultConfig returns the standard chess-clock and economy settings.
func DefaultConfig() Config {
	return Config{
		BaseTimeMs:   120_000,
		IncrementMs:  45_000,
		StartingGold: 50,
		BaseIncome:   20,
		TimerTick:    time.Second,
	}
}
