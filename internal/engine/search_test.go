package engine

import (
	"math/rand"
	"testing"
	"time"

	"quantik/internal/quantik"
)

func newTestEngine(depth int, limit time.Duration) *Engine {
	return NewEngine(Config{MaxDepth: depth, TimeLimit: limit})
}

// randomPosition plays n random legal moves from the start, stopping early at
// a win or a side without moves.
func randomPosition(rng *rand.Rand, n int) *quantik.Position {
	pos := quantik.NewInitialPosition()
	for i := 0; i < n; i++ {
		moves := pos.LegalMoves(pos.SideToMove)
		if len(moves) == 0 {
			break
		}
		mv := moves[rng.Intn(len(moves))]
		pos.Apply(mv)
		if pos.CompletesLine(mv.Square()) {
			pos.Undo(mv)
			break
		}
	}
	return pos
}

func TestSearchFindsWinInOne(t *testing.T) {
	pos := quantik.MustDecode(rowWinForA)
	res := newTestEngine(4, -1).Search(pos)
	want := quantik.Move{Row: 0, Col: 3, Shape: quantik.Diamond}
	if !res.Found || res.BestMove != want {
		t.Fatalf("best move: got %v (found=%v) want %v", res.BestMove, res.Found, want)
	}
	if !res.IsWin() || res.Score != winScore-1 {
		t.Fatalf("score: got %d want %d", res.Score, winScore-1)
	}
	if res.Depth != 1 {
		t.Fatalf("a proven win should stop deepening, reached depth %d", res.Depth)
	}
	if len(res.PV) == 0 || res.PV[0] != want {
		t.Fatalf("pv: got %v", res.PV)
	}
}

func TestSearchAvoidsImmediateLoss(t *testing.T) {
	pos := quantik.MustDecode(singleBlockForA)
	res := newTestEngine(2, -1).Search(pos)
	if !res.Found {
		t.Fatalf("no move found")
	}
	if res.IsLoss() {
		t.Fatalf("a defence exists, got losing score %d", res.Score)
	}
	cp := pos.Clone()
	if !cp.Apply(res.BestMove) {
		t.Fatalf("illegal best move %v", res.BestMove)
	}
	if HasWinningMove(cp, quantik.PlayerB) {
		t.Fatalf("%v leaves B a winning reply", res.BestMove)
	}
}

func TestSearchIterationsIncrease(t *testing.T) {
	pos := randomPosition(rand.New(rand.NewSource(3)), 4)
	res := newTestEngine(3, -1).Search(pos)
	if !res.Found || res.Aborted {
		t.Fatalf("search without a deadline should finish: found=%v aborted=%v", res.Found, res.Aborted)
	}
	if len(res.Iterations) == 0 {
		t.Fatalf("no iterations recorded")
	}
	for i, it := range res.Iterations {
		if it.Depth != i+1 {
			t.Fatalf("iteration %d has depth %d", i, it.Depth)
		}
		if i > 0 && it.Nodes < res.Iterations[i-1].Nodes {
			t.Fatalf("node count went backwards")
		}
	}
	last := res.Iterations[len(res.Iterations)-1]
	if last.Move != res.BestMove || last.Score != res.Score || last.Depth != res.Depth {
		t.Fatalf("result does not match the last iteration: %+v vs %+v", last, res)
	}
}

func TestSearchRestoresPositionOnAbort(t *testing.T) {
	pos := randomPosition(rand.New(rand.NewSource(11)), 3)
	before := *pos
	res := newTestEngine(quantik.NumCells, 5*time.Millisecond).Search(pos)
	if !res.Aborted {
		t.Skip("search finished inside the deadline")
	}
	if *pos != before {
		t.Fatalf("position changed:\n%s\nwant\n%s", pos, &before)
	}
	if pos.Key != pos.CalculateKey() {
		t.Fatalf("key out of sync after abort")
	}
}

func TestSearchMovesAreLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newTestEngine(2, -1)
	for i := 0; i < 40; i++ {
		pos := randomPosition(rng, rng.Intn(12))
		legal := pos.LegalMoves(pos.SideToMove)
		res := e.Search(pos)
		if len(legal) == 0 {
			if res.Found {
				t.Fatalf("%s: found a move with no legal moves", pos.Encode())
			}
			continue
		}
		if !res.Found || !containsMove(legal, res.BestMove) {
			t.Fatalf("%s: got %v (found=%v), not a legal move", pos.Encode(), res.BestMove, res.Found)
		}
	}
}

func TestDepthCeiling(t *testing.T) {
	e := newTestEngine(0, -1)
	if got := e.depthCeiling(quantik.NewInitialPosition()); got != 4 {
		t.Fatalf("opening depth: got %d want 4", got)
	}
	pos := randomPosition(rand.New(rand.NewSource(5)), 14)
	if got, empty := e.depthCeiling(pos), pos.EmptyCells(); got > empty {
		t.Fatalf("depth %d exceeds %d empty cells", got, empty)
	}
	if got := newTestEngine(3, -1).depthCeiling(quantik.NewInitialPosition()); got != 3 {
		t.Fatalf("MaxDepth override: got %d want 3", got)
	}
}
