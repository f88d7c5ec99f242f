package mcts

import (
	"sync"
	"sync/atomic"

	"quantik/internal/quantik"
)

const (
	StateUnevaluated = iota
	StateEvaluating
	StateExpanded
)

type NodeStats struct {
	Visits     int64
	WeightSum  float64
	UtilityAvg float64 // +1 = PlayerA wins, -1 = PlayerB wins
}

type Node struct {
	mu sync.Mutex

	Move     quantik.Move
	NextPla  quantik.Player // side to move at this node
	Parent   *Node
	Children []*Node // canonical move order
	Prior    float64
	State    int32 // atomic

	Stats         NodeStats
	VirtualLosses int32 // atomic

	IsTerminal bool
	Winner     quantik.Player
}

func NewNode(mv quantik.Move, parent *Node, pla quantik.Player, prior float64) *Node {
	return &Node{
		Move:    mv,
		Parent:  parent,
		NextPla: pla,
		Prior:   prior,
		State:   StateUnevaluated,
		Winner:  quantik.NoPlayer,
	}
}

func (n *Node) RecordPlayout(utility float64, weight float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Stats.Visits++
	n.Stats.WeightSum += weight
	delta := utility - n.Stats.UtilityAvg
	n.Stats.UtilityAvg += delta * weight / n.Stats.WeightSum
}

func (n *Node) snapshot() NodeStats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Stats
}

func (n *Node) expanded() bool { return atomic.LoadInt32(&n.State) == StateExpanded }

// GetUtilityForSelection returns the average utility seen by pla.
func (n *Node) GetUtilityForSelection(pla quantik.Player) float64 {
	avg := n.snapshot().UtilityAvg
	if pla == quantik.PlayerA {
		return avg
	}
	return -avg
}

// utilityFor is +1 when winner is PlayerA.
func utilityFor(winner quantik.Player) float64 {
	switch winner {
	case quantik.PlayerA:
		return 1.0
	case quantik.PlayerB:
		return -1.0
	}
	return 0
}
