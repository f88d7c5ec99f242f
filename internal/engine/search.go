package engine

import (
	"time"

	"quantik/internal/quantik"
)

const (
	scoreInf        = 1_000_000_000
	winScore        = 100_000
	earlyExitMargin = 64
)

// Iteration is the outcome of one completed iterative-deepening pass.
type Iteration struct {
	Depth   int
	Move    quantik.Move
	Score   int
	Nodes   int64
	Elapsed time.Duration
}

type SearchResult struct {
	BestMove quantik.Move
	Found    bool // false when not even depth 1 completed
	Score    int  // root player's point of view
	Depth    int  // last completed depth
	Nodes    int64
	TimeUsed time.Duration
	PV       []quantik.Move
	Aborted  bool // the deadline interrupted an iteration

	Iterations []Iteration
}

// IsWin reports whether Score proves a forced win for the root player.
func (r SearchResult) IsWin() bool { return r.Score >= winScore-maxPly }

// IsLoss reports whether Score proves a forced loss for the root player.
func (r SearchResult) IsLoss() bool { return r.Score <= -(winScore - maxPly) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// depthCeiling never goes past the end of the game.
func (e *Engine) depthCeiling(pos *quantik.Position) int {
	d := e.cfg.MaxDepth
	if d <= 0 {
		d = depthForProgress(pos.PiecesPlaced())
	}
	if empty := pos.EmptyCells(); d > empty {
		d = empty
	}
	return d
}

// Search runs iterative deepening from pos for the side to move. pos is used
// in place and is identical to its input when Search returns, aborted or not.
func (e *Engine) Search(pos *quantik.Position) SearchResult {
	start := time.Now()
	e.reset(pos.SideToMove)
	pos.EnsureKey()

	var deadline time.Time
	if e.cfg.TimeLimit > 0 {
		deadline = start.Add(e.cfg.TimeLimit)
	}

	var res SearchResult
	ceiling := e.depthCeiling(pos)
	for depth := 1; depth <= ceiling; depth++ {
		if expired(deadline) {
			res.Aborted = true
			break
		}
		score, mv, found, aborted := e.alphaBetaRoot(pos, depth, deadline)
		if aborted {
			res.Aborted = true
			e.log.Debug().Int("depth", depth).Int64("nodes", e.nodes).Msg("iteration aborted")
			break
		}
		if !found {
			break
		}
		res.BestMove = mv
		res.Found = true
		res.Score = score
		res.Depth = depth

		it := Iteration{Depth: depth, Move: mv, Score: score, Nodes: e.nodes, Elapsed: time.Since(start)}
		res.Iterations = append(res.Iterations, it)
		e.log.Debug().
			Int("depth", depth).
			Int("score", score).
			Str("move", mv.String()).
			Int64("nodes", e.nodes).
			Dur("elapsed", it.Elapsed).
			Msg("iteration")

		if abs(score) >= e.cfg.EarlyExitScore {
			break
		}
	}

	res.Nodes = e.nodes
	res.TimeUsed = time.Since(start)
	if res.Found {
		res.PV = e.principalVariation(pos, res.Depth)
	}
	return res
}

func expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

// promote moves mv to the front, shifting the rest down so their order holds.
func promote(moves []quantik.Move, mv quantik.Move) {
	for i := range moves {
		if moves[i] == mv {
			copy(moves[1:i+1], moves[:i])
			moves[0] = mv
			return
		}
	}
}

// alphaBetaRoot searches every root move with a full window. The root side is
// always the maximizing player.
func (e *Engine) alphaBetaRoot(pos *quantik.Position, depth int, deadline time.Time) (int, quantik.Move, bool, bool) {
	moves := pos.AppendLegalMoves(e.moveBuf[0][:0], pos.SideToMove)
	e.moveBuf[0] = moves
	if len(moves) == 0 {
		return 0, quantik.Move{}, false, false
	}
	e.order.order(pos, moves, 0)
	if mv, ok := e.tt.BestMove(pos.Key); ok {
		promote(moves, mv)
	}

	alpha, beta := -scoreInf, scoreInf
	best := -scoreInf
	var bestMove quantik.Move
	found := false
	for _, mv := range moves {
		if !pos.Apply(mv) {
			continue
		}
		score, aborted := e.alphaBeta(pos, depth-1, 1, mv.Square(), alpha, beta, deadline)
		pos.Undo(mv)
		if aborted {
			return 0, quantik.Move{}, false, true
		}
		if !found || score > best {
			best, bestMove, found = score, mv, true
		}
		if score > alpha {
			alpha = score
		}
	}
	if found {
		e.tt.Store(pos.Key, depth, best, BoundExact, bestMove, true)
	}
	return best, bestMove, found, false
}

// alphaBeta returns the score of pos from the root player's point of view.
// lastSq is the cell filled by the move that led here. The second result is
// true when the deadline expired; the score is then meaningless and every
// Apply on the stack has already been undone on the way back up.
func (e *Engine) alphaBeta(pos *quantik.Position, depth, ply, lastSq, alpha, beta int, deadline time.Time) (int, bool) {
	if expired(deadline) {
		return 0, true
	}
	e.nodes++

	if score, ok := e.tt.Probe(pos.Key, depth, alpha, beta); ok {
		return score, false
	}

	if pos.CompletesLine(lastSq) {
		score := winScore - ply
		if pos.SideToMove.Opponent() != e.root {
			score = -score
		}
		e.tt.Store(pos.Key, maxPly, score, BoundExact, quantik.Move{}, false)
		return score, false
	}

	idx := ply
	if idx >= maxPly {
		idx = maxPly - 1
	}
	moves := pos.AppendLegalMoves(e.moveBuf[idx][:0], pos.SideToMove)
	e.moveBuf[idx] = moves
	if len(moves) == 0 {
		e.tt.Store(pos.Key, maxPly, 0, BoundExact, quantik.Move{}, false)
		return 0, false
	}

	if depth <= 0 {
		return Evaluate(pos, e.root), false
	}

	e.order.order(pos, moves, ply)
	if mv, ok := e.tt.BestMove(pos.Key); ok {
		promote(moves, mv)
	}

	maximizing := pos.SideToMove == e.root
	alphaOrig, betaOrig := alpha, beta
	best := scoreInf
	if maximizing {
		best = -scoreInf
	}
	var bestMove quantik.Move
	hasMove := false

	for _, mv := range moves {
		if !pos.Apply(mv) {
			continue
		}
		score, aborted := e.alphaBeta(pos, depth-1, ply+1, mv.Square(), alpha, beta, deadline)
		pos.Undo(mv)
		if aborted {
			return 0, true
		}

		if maximizing {
			if score > best || !hasMove {
				best, bestMove, hasMove = score, mv, true
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best || !hasMove {
				best, bestMove, hasMove = score, mv, true
			}
			if best < beta {
				beta = best
			}
		}
		if alpha >= beta {
			e.order.recordCutoff(ply, depth, mv)
			break
		}
	}

	bound := BoundExact
	if maximizing {
		switch {
		case best >= beta:
			bound = BoundLower
		case best <= alphaOrig:
			bound = BoundUpper
		}
	} else {
		switch {
		case best <= alpha:
			bound = BoundUpper
		case best >= betaOrig:
			bound = BoundLower
		}
	}
	e.tt.Store(pos.Key, depth, best, bound, bestMove, hasMove)
	return best, false
}

// principalVariation follows stored best moves on a copy of pos.
func (e *Engine) principalVariation(pos *quantik.Position, depth int) []quantik.Move {
	cp := pos.Clone()
	pv := make([]quantik.Move, 0, depth)
	for len(pv) < depth {
		mv, ok := e.tt.BestMove(cp.Key)
		if !ok || !cp.Apply(mv) {
			break
		}
		pv = append(pv, mv)
		if cp.CompletesLine(mv.Square()) {
			break
		}
	}
	return pv
}
