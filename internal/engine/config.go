package engine

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeLimit    = 2 * time.Second
	defaultTTMaxEntries = 1 << 20
)

// Config controls one Engine. Zero fields take defaults.
type Config struct {
	MaxDepth       int           // fixed depth ceiling; 0 = adapt to game progress
	TimeLimit      time.Duration // per decision; negative = no limit
	TTMaxEntries   int           // table is cleared past this many entries
	EarlyExitScore int           // stop deepening once |score| reaches this
	Logger         *zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		TimeLimit:      defaultTimeLimit,
		TTMaxEntries:   defaultTTMaxEntries,
		EarlyExitScore: winScore - earlyExitMargin,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TimeLimit == 0 {
		c.TimeLimit = d.TimeLimit
	}
	if c.TTMaxEntries <= 0 {
		c.TTMaxEntries = d.TTMaxEntries
	}
	if c.EarlyExitScore <= 0 {
		c.EarlyExitScore = d.EarlyExitScore
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	return c
}

// depthForProgress: shallow in the opening, deeper as the branching factor shrinks.
func depthForProgress(piecesPlaced int) int {
	switch {
	case piecesPlaced <= 4:
		return 4
	case piecesPlaced <= 10:
		return 6
	default:
		return 8
	}
}
