package match

import (
	"time"

	"quantik/internal/quantik"
	"quantik/internal/strategy"
)

type Termination int8

const (
	InProgress Termination = iota
	Victory                // the mover completed a line
	Forfeit                // the side to move had no legal move
	IllegalMove            // the side to move returned an illegal move
	Cancelled
)

func (t Termination) String() string {
	switch t {
	case InProgress:
		return "in-progress"
	case Victory:
		return "victory"
	case Forfeit:
		return "forfeit"
	case IllegalMove:
		return "illegal-move"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

type Turn struct {
	Player  quantik.Player
	Move    quantik.Move
	Elapsed time.Duration
}

type Result struct {
	Winner      quantik.Player // NoPlayer unless the game finished
	Termination Termination
	Turns       []Turn
	Final       string // final position in text notation
	Duration    time.Duration
	Err         error // set for IllegalMove, wraps ErrIllegalMove
}

// Match is one game between two deciders, Players[p] seated as p.
type Match struct {
	ID        string
	Players   [quantik.NumPlayers]strategy.Decider
	Pos       *quantik.Position
	History   []Turn
	Result    *Result
	CreatedAt time.Time
	UpdatedAt time.Time

	running bool
}

func (m *Match) Finished() bool { return m.Result != nil }
