package strategy

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"quantik/internal/engine"
	"quantik/internal/mcts"
	"quantik/internal/quantik"
)

func testOptions() Options {
	p := mcts.DefaultParams()
	p.Simulations = 200
	p.MaxTime = -1
	return Options{
		Engine: engine.Config{MaxDepth: 2, TimeLimit: 500 * time.Millisecond},
		MCTS:   p,
		Seed:   1,
	}
}

func TestNewKnowsEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		d, err := New(kind, quantik.PlayerB, testOptions())
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if d.Name() != kind || d.Player() != quantik.PlayerB {
			t.Fatalf("%s: got name %q player %s", kind, d.Name(), d.Player())
		}
	}
	if _, err := New("oracle", quantik.PlayerA, testOptions()); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestDecidersReturnLegalMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				pos := quantik.NewInitialPosition()
				for n := rng.Intn(8); n > 0; n-- {
					moves := pos.LegalMoves(pos.SideToMove)
					if len(moves) == 0 {
						break
					}
					mv := moves[rng.Intn(len(moves))]
					pos.Apply(mv)
					if pos.CheckVictory() {
						pos.Undo(mv)
						break
					}
				}
				if !pos.HasAnyLegalMove(pos.SideToMove) {
					continue
				}
				d, err := New(kind, pos.SideToMove, testOptions())
				if err != nil {
					t.Fatal(err)
				}
				board, inv := pos.Board, pos.Inventory
				mv, ok := d.Decide(board, inv)
				if !ok || !pos.CanPlay(mv, pos.SideToMove) {
					t.Fatalf("%s: %v (ok=%v) is not legal", pos.Encode(), mv, ok)
				}
				if board != pos.Board || inv != pos.Inventory {
					t.Fatalf("decider modified its snapshot")
				}
			}
		})
	}
}

func TestDecidersReportNoMove(t *testing.T) {
	var inv quantik.Inventory
	for s := range inv[quantik.PlayerB] {
		inv[quantik.PlayerB][s] = quantik.PiecesPerShape
	}
	for _, kind := range Kinds {
		d, _ := New(kind, quantik.PlayerA, testOptions())
		if mv, ok := d.Decide(quantik.Board{}, inv); ok {
			t.Fatalf("%s: returned %v without pieces", kind, mv)
		}
	}
}

func TestGreedyTakesWin(t *testing.T) {
	pos := quantik.MustDecode("CST1/4/t3/1d1s a")
	mv, ok := NewGreedy(quantik.PlayerA).Decide(pos.Board, pos.Inventory)
	if !ok || mv != (quantik.Move{Row: 0, Col: 3, Shape: quantik.Diamond}) {
		t.Fatalf("got %v,%v", mv, ok)
	}
}

func TestRandomIsReproducible(t *testing.T) {
	pos := quantik.NewInitialPosition()
	a := NewRandom(quantik.PlayerA, rand.New(rand.NewSource(3)))
	b := NewRandom(quantik.PlayerA, rand.New(rand.NewSource(3)))
	for i := 0; i < 10; i++ {
		ma, _ := a.Decide(pos.Board, pos.Inventory)
		mb, _ := b.Decide(pos.Board, pos.Inventory)
		if ma != mb {
			t.Fatalf("draw %d: %v vs %v", i, ma, mb)
		}
	}
}
