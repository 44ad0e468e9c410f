package core

import "time"

// RuntimeConfig carries the per-session parameters a front end needs to
// drive a game: the terminal size it renders into, how often the driver
// loop ticks, and the RNG seed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Driver ticks per second (default 60)
	Seed     int64 // RNG seed; 0 means pick one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// TickInterval returns the driver loop period, falling back to 60 ticks
// per second when TickRate is unset.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
