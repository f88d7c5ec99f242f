package engine

import "quantik/internal/quantik"

// Phase names the step of a decision that produced its move.
type Phase int8

const (
	PhaseNone Phase = iota
	PhaseWin
	PhaseBlock
	PhaseMultiBlock
	PhaseDominantBlock
	PhaseCounter
	PhaseSearch
	PhaseEmergency
)

var phaseNames = [...]string{
	PhaseNone:          "none",
	PhaseWin:           "win",
	PhaseBlock:         "block",
	PhaseMultiBlock:    "multi-block",
	PhaseDominantBlock: "dominant-block",
	PhaseCounter:       "counter",
	PhaseSearch:        "search",
	PhaseEmergency:     "emergency",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

const (
	counterImmediateScore = 200
	counterDevelopScore   = 100
	counterBlockBonus     = 150
	counterMinScore       = 150
)

// FindTacticalMove applies the forced-play rules in priority order: win now,
// block a single immediate threat, block as many of several threats as
// possible, then counter developing threats. legal must be the legal move set
// of the side to move, in canonical order. pos is restored before returning.
func FindTacticalMove(pos *quantik.Position, legal []quantik.Move) (quantik.Move, Phase, bool) {
	if len(legal) == 0 {
		return quantik.Move{}, PhaseNone, false
	}
	if mv, ok := findWin(pos, legal); ok {
		return mv, PhaseWin, true
	}

	opp := pos.SideToMove.Opponent()
	threats := FindThreats(pos, opp)
	switch {
	case len(threats.Immediate) == 1:
		if mv, ok := blockSingle(pos, legal, threats.Immediate[0]); ok {
			return mv, PhaseBlock, true
		}
	case len(threats.Immediate) > 1:
		return blockMultiple(pos, legal, threats.Immediate)
	case len(threats.Developing) > 0:
		if mv, ok := counterDeveloping(pos, legal, threats.Developing); ok {
			return mv, PhaseCounter, true
		}
	}
	return quantik.Move{}, PhaseNone, false
}

func findWin(pos *quantik.Position, legal []quantik.Move) (quantik.Move, bool) {
	for _, mv := range legal {
		if !pos.Apply(mv) {
			continue
		}
		won := pos.CompletesLine(mv.Square())
		pos.Undo(mv)
		if won {
			return mv, true
		}
	}
	return quantik.Move{}, false
}

// blockSingle plays on the threat's vacancy and keeps the move only if the
// opponent is left with no immediate threat. A block that also leaves the
// opponent no winning reply at all is preferred.
func blockSingle(pos *quantik.Position, legal []quantik.Move, t Threat) (quantik.Move, bool) {
	opp := pos.SideToMove.Opponent()
	var fallback quantik.Move
	haveFallback := false
	for _, mv := range legal {
		if !t.Resolves(mv.Square()) || !pos.Apply(mv) {
			continue
		}
		left := countImmediate(pos, opp)
		oppWins := HasWinningMove(pos, opp)
		pos.Undo(mv)
		if left != 0 {
			continue
		}
		if !oppWins {
			return mv, true
		}
		if !haveFallback {
			fallback, haveFallback = mv, true
		}
	}
	return fallback, haveFallback
}

// dominance of sq: the largest number of opponent pieces in any of the given
// threat lines that sq resolves.
func dominance(threats []Threat, sq int) int {
	best := -1
	for _, t := range threats {
		if t.Resolves(sq) && t.Owned > best {
			best = t.Owned
		}
	}
	return best
}

func blockMultiple(pos *quantik.Position, legal []quantik.Move, threats []Threat) (quantik.Move, Phase, bool) {
	opp := pos.SideToMove.Opponent()
	before := len(threats)

	var best quantik.Move
	bestResolved, bestDom := 0, -1
	for _, mv := range legal {
		sq := mv.Square()
		dom := dominance(threats, sq)
		if dom < 0 || !pos.Apply(mv) {
			continue
		}
		resolved := before - countImmediate(pos, opp)
		pos.Undo(mv)
		if resolved <= 0 {
			continue
		}
		if resolved > bestResolved || (resolved == bestResolved && dom > bestDom) {
			best, bestResolved, bestDom = mv, resolved, dom
		}
	}
	if bestResolved > 0 {
		return best, PhaseMultiBlock, true
	}

	// Nothing reduces the count: at least occupy the most contested vacancy.
	for _, mv := range legal {
		dom := dominance(threats, mv.Square())
		if dom > bestDom {
			best, bestDom = mv, dom
		}
	}
	if bestDom >= 0 {
		return best, PhaseDominantBlock, true
	}
	return quantik.Move{}, PhaseNone, false
}

// counterDeveloping scores moves that build own threats or sit on an opponent
// developing vacancy. Moves that hand the opponent an immediate threat or a
// winning reply are never candidates.
func counterDeveloping(pos *quantik.Position, legal []quantik.Move, oppDev []Threat) (quantik.Move, bool) {
	me := pos.SideToMove
	opp := me.Opponent()
	immBefore, devBefore := CountThreats(pos, me)

	var best quantik.Move
	bestScore := -1
	for _, mv := range legal {
		if !pos.Apply(mv) {
			continue
		}
		if countImmediate(pos, opp) > 0 || HasWinningMove(pos, opp) {
			pos.Undo(mv)
			continue
		}
		imm, dev := CountThreats(pos, me)
		pos.Undo(mv)

		score := 0
		if d := imm - immBefore; d > 0 {
			score += d * counterImmediateScore
		}
		if d := dev - devBefore; d > 0 {
			score += d * counterDevelopScore
		}
		for _, t := range oppDev {
			if t.Resolves(mv.Square()) {
				score += counterBlockBonus
				break
			}
		}
		if score > bestScore {
			best, bestScore = mv, score
		}
	}
	if bestScore >= counterMinScore {
		return best, true
	}
	return quantik.Move{}, false
}

// EmergencyMove picks the first legal move on a centre cell, else the first
// legal move. legal must be non-empty.
func EmergencyMove(legal []quantik.Move) quantik.Move {
	for _, mv := range legal {
		if quantik.IsCenter(mv.Square()) {
			return mv
		}
	}
	return legal[0]
}
