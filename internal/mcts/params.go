package mcts

import (
	"math"
	"time"
)

// SearchParams controls one Searcher. Zero values take DefaultParams.
type SearchParams struct {
	Simulations int
	MaxTime     time.Duration
	NumThreads  int

	CpuctExploration     float64
	CpuctExplorationBase float64
	CpuctExplorationLog  float64

	FpuReductionMax float64

	NumVirtualLossesPerThread float64

	// playouts take a line-completing move whenever one exists
	GreedyPlayouts bool
}

func DefaultParams() SearchParams {
	return SearchParams{
		Simulations:               4000,
		MaxTime:                   2 * time.Second,
		NumThreads:                1,
		CpuctExploration:          1.1,
		CpuctExplorationBase:      10000.0,
		CpuctExplorationLog:       0.4,
		FpuReductionMax:           0.2,
		NumVirtualLossesPerThread: 1.0,
		GreedyPlayouts:            true,
	}
}

func (p SearchParams) withDefaults() SearchParams {
	d := DefaultParams()
	if p.Simulations <= 0 {
		p.Simulations = d.Simulations
	}
	if p.MaxTime == 0 {
		p.MaxTime = d.MaxTime
	}
	if p.NumThreads <= 0 {
		p.NumThreads = d.NumThreads
	}
	if p.CpuctExploration <= 0 {
		p.CpuctExploration = d.CpuctExploration
	}
	if p.CpuctExplorationBase <= 0 {
		p.CpuctExplorationBase = d.CpuctExplorationBase
	}
	if p.NumVirtualLossesPerThread <= 0 {
		p.NumVirtualLossesPerThread = d.NumVirtualLossesPerThread
	}
	return p
}

func (p *SearchParams) GetCpuct(totalChildWeight float64) float64 {
	return p.CpuctExploration + p.CpuctExplorationLog*math.Log((totalChildWeight+p.CpuctExplorationBase)/p.CpuctExplorationBase)
}
