package engine

import (
	"sort"

	"quantik/internal/quantik"
)

const (
	killerBonus      = 10_000 // slot 0; slot 1 gets killerBonus - killerSlotStep
	killerSlotStep   = 1_000
	winInOneBonus    = 1_000_000
	newThreatBonus   = 200
	centerOrderBonus = 100
	edgeOrderBonus   = 50
)

type scoredMove struct {
	move  quantik.Move
	score int
}

// moveOrderer keeps killer moves per ply and a history score per (cell, shape)
// for the whole decision.
type moveOrderer struct {
	killers [maxPly][2]quantik.Move
	nKiller [maxPly]int
	history [quantik.NumCells][quantik.NumShapes]int

	buf [maxPly][]scoredMove
}

func newMoveOrderer() *moveOrderer {
	o := &moveOrderer{}
	for i := range o.buf {
		o.buf[i] = make([]scoredMove, 0, quantik.NumCells*quantik.NumShapes)
	}
	return o
}

func (o *moveOrderer) reset() {
	o.nKiller = [maxPly]int{}
	o.history = [quantik.NumCells][quantik.NumShapes]int{}
}

func (o *moveOrderer) killerSlot(ply int, mv quantik.Move) int {
	if ply < 0 || ply >= maxPly {
		return -1
	}
	for i := 0; i < o.nKiller[ply]; i++ {
		if o.killers[ply][i] == mv {
			return i
		}
	}
	return -1
}

// recordCutoff remembers mv as a killer at ply and bumps its history by depth².
func (o *moveOrderer) recordCutoff(ply, depth int, mv quantik.Move) {
	o.history[mv.Square()][mv.Shape] += depth * depth
	if ply < 0 || ply >= maxPly {
		return
	}
	k := &o.killers[ply]
	if o.nKiller[ply] > 0 && k[0] == mv {
		return
	}
	k[1] = k[0]
	k[0] = mv
	if o.nKiller[ply] < 2 {
		o.nKiller[ply]++
	}
}

func positionalOrderBonus(sq int) int {
	switch {
	case quantik.IsCenter(sq):
		return centerOrderBonus
	case quantik.IsCorner(sq):
		return 0
	}
	return edgeOrderBonus
}

// priority of mv for the side to move. pos is restored before returning.
func (o *moveOrderer) priority(pos *quantik.Position, mv quantik.Move, ply, immBefore int) int {
	sq := mv.Square()
	score := positionalOrderBonus(sq) + o.history[sq][mv.Shape]
	if slot := o.killerSlot(ply, mv); slot >= 0 {
		score += killerBonus - slot*killerSlotStep
	}

	side := pos.SideToMove
	if !pos.Apply(mv) {
		return score
	}
	if pos.CompletesLine(sq) {
		score += winInOneBonus
	} else if imm := countImmediate(pos, side); imm > immBefore {
		score += (imm - immBefore) * newThreatBonus
	}
	pos.Undo(mv)
	return score
}

// order sorts moves in place, best first. Ties keep the incoming order, which
// is the rules engine's canonical order.
func (o *moveOrderer) order(pos *quantik.Position, moves []quantik.Move, ply int) {
	if len(moves) < 2 {
		return
	}
	idx := ply
	if idx < 0 || idx >= maxPly {
		idx = maxPly - 1
	}
	immBefore := countImmediate(pos, pos.SideToMove)
	scored := o.buf[idx][:0]
	for _, mv := range moves {
		scored = append(scored, scoredMove{move: mv, score: o.priority(pos, mv, ply, immBefore)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
	o.buf[idx] = scored
}

// OrderMoves exposes the ordering heuristic without killer/history state.
func OrderMoves(pos *quantik.Position, moves []quantik.Move) []quantik.Move {
	out := append([]quantik.Move(nil), moves...)
	newMoveOrderer().order(pos, out, 0)
	return out
}
