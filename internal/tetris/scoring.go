package tetris

import "time"

// Scoring constants.
const (
	LinesPerLevel   = 10
	SoftDropPoints  = 1 // per row
	HardDropPoints  = 2 // per row
	maxClearedLines = 4
)

var lineClearTable = [maxClearedLines + 1]int{0, 100, 300, 500, 800}

// Stats is the score/level/lines triple of a game.
type Stats struct {
	Score int
	Level int
	Lines int
}

// LineClearScore returns the points for clearing k rows in one lock at
// the given level.
func LineClearScore(k, level int) int {
	if k <= 0 || k > maxClearedLines {
		return 0
	}
	return lineClearTable[k] * level
}

// LevelFor returns the level reached after clearing lines rows in total.
// It is recomputed from the total so crossing several thresholds at once
// stays consistent.
func LevelFor(lines int) int {
	if lines < 0 {
		lines = 0
	}
	return lines/LinesPerLevel + 1
}

// GravityConfig controls how fast pieces fall.
type GravityConfig struct {
	BaseInterval  time.Duration
	FloorInterval time.Duration
	LevelDelta    time.Duration
}

// GravityInterval returns the time between gravity ticks at level.
func GravityInterval(level int, g GravityConfig) time.Duration {
	if level < 1 {
		level = 1
	}
	interval := g.BaseInterval - time.Duration(level-1)*g.LevelDelta
	if interval < g.FloorInterval {
		interval = g.FloorInterval
	}
	return interval
}

// applyLock folds a lock that cleared k rows into s.
func (s *Stats) applyLock(k int) {
	s.Score += LineClearScore(k, s.Level)
	s.Lines += k
	s.Level = LevelFor(s.Lines)
}
