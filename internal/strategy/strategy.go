// Package strategy holds the interchangeable move deciders. Each is bound to
// one player when constructed and sees only board and inventory snapshots.
package strategy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"quantik/internal/engine"
	"quantik/internal/mcts"
	"quantik/internal/quantik"
)

// Decider returns a move for its player, or false when that player has no
// legal move. Implementations must not keep references to board or inv.
type Decider interface {
	Name() string
	Player() quantik.Player
	Decide(board quantik.Board, inv quantik.Inventory) (quantik.Move, bool)
}

var ErrUnknownStrategy = errors.New("unknown strategy")

// Kinds lists the names New accepts.
var Kinds = []string{"minimax", "mcts", "greedy", "random"}

type Options struct {
	Engine engine.Config
	MCTS   mcts.SearchParams
	Seed   int64
	Logger *zerolog.Logger
}

// New builds a decider by name.
func New(kind string, pl quantik.Player, opts Options) (Decider, error) {
	switch kind {
	case "minimax":
		cfg := opts.Engine
		if cfg.Logger == nil {
			cfg.Logger = opts.Logger
		}
		return NewMinimax(pl, cfg), nil
	case "mcts":
		return NewMCTS(pl, opts.MCTS, rand.New(rand.NewSource(opts.Seed)), opts.Logger), nil
	case "greedy":
		return NewGreedy(pl), nil
	case "random":
		return NewRandom(pl, rand.New(rand.NewSource(opts.Seed))), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
}

func snapshot(board quantik.Board, inv quantik.Inventory, pl quantik.Player) (*quantik.Position, bool) {
	pos, err := quantik.NewPosition(board, inv, pl)
	if err != nil {
		return nil, false
	}
	return pos, true
}

// Minimax owns an engine, so two Minimax deciders never share tables.
type Minimax struct {
	pl  quantik.Player
	eng *engine.Engine
}

func NewMinimax(pl quantik.Player, cfg engine.Config) *Minimax {
	return &Minimax{pl: pl, eng: engine.NewEngine(cfg)}
}

func (m *Minimax) Name() string           { return "minimax" }
func (m *Minimax) Player() quantik.Player { return m.pl }

func (m *Minimax) Decide(board quantik.Board, inv quantik.Inventory) (quantik.Move, bool) {
	return m.eng.Decide(board, inv, m.pl)
}

type MCTS struct {
	pl       quantik.Player
	searcher *mcts.Searcher
}

func NewMCTS(pl quantik.Player, params mcts.SearchParams, rng *rand.Rand, logger *zerolog.Logger) *MCTS {
	return &MCTS{pl: pl, searcher: mcts.NewSearcher(params, rng, logger)}
}

func (m *MCTS) Name() string           { return "mcts" }
func (m *MCTS) Player() quantik.Player { return m.pl }

func (m *MCTS) Decide(board quantik.Board, inv quantik.Inventory) (quantik.Move, bool) {
	pos, ok := snapshot(board, inv, m.pl)
	if !ok {
		return quantik.Move{}, false
	}
	res := m.searcher.Search(pos)
	return res.BestMove, res.Found
}

// Random plays a uniformly chosen legal move.
type Random struct {
	pl  quantik.Player
	rng *rand.Rand
}

func NewRandom(pl quantik.Player, rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Random{pl: pl, rng: rng}
}

func (r *Random) Name() string           { return "random" }
func (r *Random) Player() quantik.Player { return r.pl }

func (r *Random) Decide(board quantik.Board, inv quantik.Inventory) (quantik.Move, bool) {
	pos, ok := snapshot(board, inv, r.pl)
	if !ok {
		return quantik.Move{}, false
	}
	moves := pos.LegalMoves(r.pl)
	if len(moves) == 0 {
		return quantik.Move{}, false
	}
	return moves[r.rng.Intn(len(moves))], true
}

// Greedy applies the tactical rules, then takes the best one-ply evaluation
// among moves that leave the opponent no winning reply.
type Greedy struct {
	pl quantik.Player
}

func NewGreedy(pl quantik.Player) *Greedy { return &Greedy{pl: pl} }

func (g *Greedy) Name() string           { return "greedy" }
func (g *Greedy) Player() quantik.Player { return g.pl }

func (g *Greedy) Decide(board quantik.Board, inv quantik.Inventory) (quantik.Move, bool) {
	pos, ok := snapshot(board, inv, g.pl)
	if !ok {
		return quantik.Move{}, false
	}
	legal := pos.LegalMoves(g.pl)
	if len(legal) == 0 {
		return quantik.Move{}, false
	}
	if mv, _, ok := engine.FindTacticalMove(pos, legal); ok {
		return mv, true
	}

	opp := g.pl.Opponent()
	best, bestScore := legal[0], 0
	found := false
	for _, mv := range legal {
		if !pos.Apply(mv) {
			continue
		}
		if engine.HasWinningMove(pos, opp) {
			pos.Undo(mv)
			continue
		}
		score := engine.Evaluate(pos, g.pl)
		pos.Undo(mv)
		if !found || score > bestScore {
			best, bestScore, found = mv, score, true
		}
	}
	if !found {
		return engine.EmergencyMove(legal), true
	}
	return best, true
}
