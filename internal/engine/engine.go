package engine

import (
	"github.com/rs/zerolog"

	"quantik/internal/quantik"
)

const maxPly = quantik.NumCells + 1

// Engine owns every table a decision touches. One Engine serves one game at a
// time; independent games need independent engines.
type Engine struct {
	cfg   Config
	log   zerolog.Logger
	tt    *TranspositionTable
	order *moveOrderer
	nodes int64

	// root player: scores are from its point of view
	root quantik.Player

	moveBuf [maxPly][]quantik.Move
}

func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	e := &Engine{
		cfg:   cfg,
		log:   logger.With().Str("component", "engine").Logger(),
		tt:    NewTranspositionTable(cfg.TTMaxEntries),
		order: newMoveOrderer(),
	}
	for i := range e.moveBuf {
		e.moveBuf[i] = make([]quantik.Move, 0, quantik.NumCells*quantik.NumShapes)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// reset clears per-decision state so results do not depend on earlier games.
func (e *Engine) reset(root quantik.Player) {
	e.tt.Clear()
	e.order.reset()
	e.nodes = 0
	e.root = root
}
