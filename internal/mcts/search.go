package mcts

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"quantik/internal/engine"
	"quantik/internal/quantik"
)

type ChildStat struct {
	Move    quantik.Move
	Visits  int64
	WinProb float64 // for the player making Move
}

type Result struct {
	BestMove    quantik.Move
	Found       bool
	WinProb     float64 // for the side to move at the root
	Simulations int64
	TimeUsed    time.Duration
	PV          []quantik.Move
	Children    []ChildStat // canonical move order
}

// Searcher runs UCT-style tree search with uniform priors and random playouts.
// A Searcher is not safe for concurrent Search calls; NumThreads workers run
// inside a single call.
type Searcher struct {
	params SearchParams
	rng    *rand.Rand
	log    zerolog.Logger
}

// NewSearcher takes the generator every worker seed is drawn from. A nil rng
// gets a fixed seed.
func NewSearcher(params SearchParams, rng *rand.Rand, logger *zerolog.Logger) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Searcher{
		params: params.withDefaults(),
		rng:    rng,
		log:    l.With().Str("component", "mcts").Logger(),
	}
}

func (s *Searcher) Params() SearchParams { return s.params }

// Search leaves pos unchanged.
func (s *Searcher) Search(pos *quantik.Position) Result {
	start := time.Now()
	if !pos.HasAnyLegalMove(pos.SideToMove) {
		return Result{TimeUsed: time.Since(start)}
	}

	root := NewNode(quantik.Move{}, nil, pos.SideToMove, 1)
	s.expand(root, pos)

	var deadline time.Time
	if s.params.MaxTime > 0 {
		deadline = start.Add(s.params.MaxTime)
	}

	threads := s.params.NumThreads
	simsPerThread := s.params.Simulations / threads
	if simsPerThread < 1 {
		simsPerThread = 1
	}
	seeds := make([]int64, threads)
	for i := range seeds {
		seeds[i] = s.rng.Int63()
	}

	var sims int64
	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for i := 0; i < simsPerThread; i++ {
				if !deadline.IsZero() && time.Now().After(deadline) {
					break
				}
				s.playout(root, pos, rng)
				atomic.AddInt64(&sims, 1)
			}
		}(rand.New(rand.NewSource(seeds[t])))
	}
	wg.Wait()

	res := Result{Simulations: sims}
	var best *Node
	for _, child := range root.Children {
		st := child.snapshot()
		res.Children = append(res.Children, ChildStat{
			Move:    child.Move,
			Visits:  st.Visits,
			WinProb: winProb(st.UtilityAvg, root.NextPla),
		})
		if best == nil || st.Visits > best.snapshot().Visits {
			best = child
		}
	}
	if best != nil {
		res.BestMove = best.Move
		res.Found = true
		res.WinProb = winProb(best.snapshot().UtilityAvg, root.NextPla)
		res.PV = principalVariation(root)
	}
	res.TimeUsed = time.Since(start)

	s.log.Debug().
		Int64("sims", res.Simulations).
		Str("move", res.BestMove.String()).
		Float64("win_prob", res.WinProb).
		Dur("elapsed", res.TimeUsed).
		Msg("search done")
	return res
}

// winProb maps a PlayerA-relative utility to a win probability for pla.
func winProb(utility float64, pla quantik.Player) float64 {
	if pla != quantik.PlayerA {
		utility = -utility
	}
	return (utility + 1.0) / 2.0
}

func principalVariation(root *Node) []quantik.Move {
	var pv []quantik.Move
	node := root
	for node.expanded() && len(node.Children) > 0 {
		var next *Node
		var visits int64
		for _, child := range node.Children {
			if v := child.snapshot().Visits; next == nil || v > visits {
				next, visits = child, v
			}
		}
		if visits == 0 {
			break
		}
		pv = append(pv, next.Move)
		node = next
	}
	return pv
}

func (s *Searcher) playout(root *Node, pos *quantik.Position, rng *rand.Rand) {
	cur := pos.Clone()
	node := root
	path := []*Node{root}

	for node.expanded() && !node.IsTerminal {
		child := s.selectChildPUCT(node)
		if child == nil {
			break
		}
		atomic.AddInt32(&child.VirtualLosses, 1)
		path = append(path, child)
		node = child
		if !cur.Apply(child.Move) {
			break
		}
	}

	var utility float64
	if !node.IsTerminal {
		s.expand(node, cur)
	}
	if node.expanded() && node.IsTerminal {
		utility = utilityFor(node.Winner)
	} else {
		utility = utilityFor(s.rollout(cur, rng))
	}

	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		n.RecordPlayout(utility, 1.0)
		if i > 0 {
			atomic.AddInt32(&n.VirtualLosses, -1)
		}
	}
}

func (s *Searcher) selectChildPUCT(node *Node) *Node {
	parent := node.snapshot()
	totalWeight := parent.WeightSum
	cpuct := s.params.GetCpuct(totalWeight)
	fpuValue := s.getFPU(node)

	var bestChild *Node
	maxSelectionValue := math.Inf(-1)
	for _, child := range node.Children {
		st := child.snapshot()
		childWeight := float64(st.Visits)
		vLoss := float64(atomic.LoadInt32(&child.VirtualLosses)) * s.params.NumVirtualLossesPerThread

		childUtility := fpuValue
		if childWeight > 0 {
			childUtility = st.UtilityAvg
			if node.NextPla != quantik.PlayerA {
				childUtility = -childUtility
			}
		}
		if vLoss > 0 {
			f := vLoss / (vLoss + childWeight)
			childUtility = childUtility*(1-f) - f
		}

		exploreValue := cpuct * child.Prior * math.Sqrt(totalWeight+1.0) / (1.0 + childWeight + vLoss)
		if v := childUtility + exploreValue; v > maxSelectionValue {
			maxSelectionValue = v
			bestChild = child
		}
	}
	return bestChild
}

// getFPU values unvisited children a little below their parent.
func (s *Searcher) getFPU(node *Node) float64 {
	return node.GetUtilityForSelection(node.NextPla) - s.params.FpuReductionMax
}

// expand marks node terminal or creates one child per legal move with a
// uniform prior. pos is the position at node. Only one worker expands a node.
func (s *Searcher) expand(node *Node, pos *quantik.Position) {
	if !atomic.CompareAndSwapInt32(&node.State, StateUnevaluated, StateEvaluating) {
		return
	}

	node.mu.Lock()
	defer node.mu.Unlock()

	if node.Parent != nil && pos.CompletesLine(node.Move.Square()) {
		node.IsTerminal = true
		node.Winner = node.NextPla.Opponent()
		atomic.StoreInt32(&node.State, StateExpanded)
		return
	}
	moves := pos.LegalMoves(node.NextPla)
	if len(moves) == 0 {
		// the side to move cannot place a piece and loses
		node.IsTerminal = true
		node.Winner = node.NextPla.Opponent()
		atomic.StoreInt32(&node.State, StateExpanded)
		return
	}
	prior := 1.0 / float64(len(moves))
	next := node.NextPla.Opponent()
	node.Children = make([]*Node, 0, len(moves))
	for _, mv := range moves {
		node.Children = append(node.Children, NewNode(mv, node, next, prior))
	}
	atomic.StoreInt32(&node.State, StateExpanded)
}

// rollout plays random moves on pos until the game ends and returns the winner.
func (s *Searcher) rollout(pos *quantik.Position, rng *rand.Rand) quantik.Player {
	buf := make([]quantik.Move, 0, quantik.NumCells*quantik.NumShapes)
	for {
		side := pos.SideToMove
		if s.params.GreedyPlayouts && engine.HasWinningMove(pos, side) {
			return side
		}
		buf = pos.AppendLegalMoves(buf[:0], side)
		if len(buf) == 0 {
			return side.Opponent()
		}
		mv := buf[rng.Intn(len(buf))]
		pos.Apply(mv)
		if pos.CompletesLine(mv.Square()) {
			return side
		}
	}
}
