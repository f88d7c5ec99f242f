package mcts

import (
	"math/rand"
	"testing"
	"time"

	"quantik/internal/quantik"
)

func testParams(sims, threads int) SearchParams {
	p := DefaultParams()
	p.Simulations = sims
	p.NumThreads = threads
	p.MaxTime = -1
	return p
}

func TestSearchTakesImmediateWin(t *testing.T) {
	pos := quantik.MustDecode("CST1/4/t3/1d1s a")
	before := *pos
	s := NewSearcher(testParams(3000, 1), rand.New(rand.NewSource(1)), nil)
	res := s.Search(pos)
	want := quantik.Move{Row: 0, Col: 3, Shape: quantik.Diamond}
	if !res.Found || res.BestMove != want {
		t.Fatalf("best move: got %v want %v", res.BestMove, want)
	}
	if res.WinProb < 0.9 {
		t.Fatalf("win probability of a won position: %.2f", res.WinProb)
	}
	if *pos != before {
		t.Fatalf("search modified the position")
	}
	if len(res.PV) == 0 || res.PV[0] != want {
		t.Fatalf("pv: %v", res.PV)
	}
}

func TestSearchDeterministicWithSeed(t *testing.T) {
	pos := quantik.MustDecode("4/1Cs1/4/4 a")
	a := NewSearcher(testParams(500, 1), rand.New(rand.NewSource(9)), nil).Search(pos)
	b := NewSearcher(testParams(500, 1), rand.New(rand.NewSource(9)), nil).Search(pos)
	if a.BestMove != b.BestMove || a.Simulations != b.Simulations {
		t.Fatalf("same seed, different results: %v/%d vs %v/%d", a.BestMove, a.Simulations, b.BestMove, b.Simulations)
	}
	for i := range a.Children {
		if a.Children[i] != b.Children[i] {
			t.Fatalf("child %d differs: %+v vs %+v", i, a.Children[i], b.Children[i])
		}
	}
}

func TestSearchParallelReturnsLegalMove(t *testing.T) {
	pos := quantik.NewInitialPosition()
	res := NewSearcher(testParams(400, 4), rand.New(rand.NewSource(2)), nil).Search(pos)
	if !res.Found || !pos.CanPlay(res.BestMove, pos.SideToMove) {
		t.Fatalf("got %v (found=%v)", res.BestMove, res.Found)
	}
	if res.Simulations != 400 {
		t.Fatalf("simulations: got %d want 400", res.Simulations)
	}
	var visits int64
	for _, c := range res.Children {
		visits += c.Visits
	}
	if visits != res.Simulations {
		t.Fatalf("child visits %d != simulations %d", visits, res.Simulations)
	}
}

func TestSearchNoLegalMove(t *testing.T) {
	var inv quantik.Inventory
	for s := range inv[quantik.PlayerB] {
		inv[quantik.PlayerB][s] = quantik.PiecesPerShape
	}
	pos, err := quantik.NewPosition(quantik.Board{}, inv, quantik.PlayerA)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if res := NewSearcher(testParams(10, 1), nil, nil).Search(pos); res.Found {
		t.Fatalf("found %v without pieces to play", res.BestMove)
	}
}

func TestSearchRespectsTimeLimit(t *testing.T) {
	p := testParams(1<<30, 1)
	p.MaxTime = 20 * time.Millisecond
	start := time.Now()
	res := NewSearcher(p, rand.New(rand.NewSource(4)), nil).Search(quantik.NewInitialPosition())
	if !res.Found {
		t.Fatalf("no move after %v", res.TimeUsed)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("search ran %v with a 20ms limit", elapsed)
	}
}

func TestRolloutEndsWithWinner(t *testing.T) {
	s := NewSearcher(testParams(1, 1), nil, nil)
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 200; i++ {
		pos := quantik.NewInitialPosition()
		w := s.rollout(pos, rng)
		if w != quantik.PlayerA && w != quantik.PlayerB {
			t.Fatalf("rollout %d: winner %v", i, w)
		}
	}
}
