package engine

import (
	"time"

	"quantik/internal/quantik"
)

type Decision struct {
	Move    quantik.Move
	Found   bool // false only when the side to move had no legal move
	Phase   Phase
	Search  *SearchResult // nil unless the search ran
	Elapsed time.Duration
}

// Decide is the snapshot entry point: board and inventory are copied, so the
// caller's structures are never retained or modified.
func (e *Engine) Decide(board quantik.Board, inv quantik.Inventory, side quantik.Player) (quantik.Move, bool) {
	pos, err := quantik.NewPosition(board, inv, side)
	if err != nil {
		e.log.Warn().Err(err).Msg("rejecting snapshot")
		return quantik.Move{}, false
	}
	d := e.DecidePosition(pos)
	return d.Move, d.Found
}

// DecidePosition chooses a move for the side to move of in without modifying it.
func (e *Engine) DecidePosition(in *quantik.Position) (d Decision) {
	start := time.Now()
	pos := in.Clone()
	pos.EnsureKey()

	legal := pos.LegalMoves(pos.SideToMove)
	if len(legal) == 0 {
		e.log.Info().Str("side", pos.SideToMove.String()).Msg("no legal move")
		return Decision{Phase: PhaseNone, Elapsed: time.Since(start)}
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("position", in.Encode()).Msg("decision failed, playing emergency move")
			d = Decision{Move: EmergencyMove(legal), Found: true, Phase: PhaseEmergency, Elapsed: time.Since(start)}
		}
	}()

	if mv, phase, ok := FindTacticalMove(pos, legal); ok {
		e.log.Info().Str("phase", phase.String()).Str("move", mv.String()).Msg("tactical move")
		d = Decision{Move: mv, Found: true, Phase: phase}
	} else {
		res := e.Search(pos)
		d = Decision{Search: &res}
		if res.Found {
			d.Move, d.Found, d.Phase = res.BestMove, true, PhaseSearch
		} else {
			e.log.Warn().Dur("limit", e.cfg.TimeLimit).Msg("search found no move, playing emergency move")
			d.Move, d.Found, d.Phase = EmergencyMove(legal), true, PhaseEmergency
		}
	}

	if !containsMove(legal, d.Move) {
		e.log.Error().Str("move", d.Move.String()).Str("phase", d.Phase.String()).Msg("illegal decision, playing emergency move")
		d.Move, d.Phase = EmergencyMove(legal), PhaseEmergency
	}
	d.Elapsed = time.Since(start)
	return d
}

func containsMove(moves []quantik.Move, mv quantik.Move) bool {
	for _, m := range moves {
		if m == mv {
			return true
		}
	}
	return false
}
