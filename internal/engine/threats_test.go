package engine

import (
	"testing"

	"quantik/internal/quantik"
)

// A needs only a diamond at d1 to complete the top row. B owns nothing in it.
const rowWinForA = "CST1/4/t3/1d1s a"

func TestFindThreats(t *testing.T) {
	pos := quantik.MustDecode(rowWinForA)

	a := FindThreats(pos, quantik.PlayerA)
	if len(a.Immediate) != 1 {
		t.Fatalf("A immediate threats: got %d want 1", len(a.Immediate))
	}
	th := a.Immediate[0]
	if th.Line != 0 || th.Kind != Immediate || th.For != quantik.PlayerA {
		t.Fatalf("unexpected threat %+v", th)
	}
	if th.Missing != 1<<uint(quantik.Diamond) {
		t.Fatalf("missing mask: got %04b", th.Missing)
	}
	if v := th.Vacancies(); len(v) != 1 || v[0] != quantik.SquareOf(0, 3) {
		t.Fatalf("vacancies: got %v", v)
	}
	if !th.Resolves(quantik.SquareOf(0, 3)) || th.Resolves(quantik.SquareOf(1, 3)) {
		t.Fatalf("Resolves disagrees with vacancies")
	}
	if len(a.Developing) != 3 {
		t.Fatalf("A developing threats: got %d want 3", len(a.Developing))
	}

	b := FindThreats(pos, quantik.PlayerB)
	if len(b.Immediate) != 0 || len(b.Developing) != 4 {
		t.Fatalf("B threats: got %d/%d want 0/4", len(b.Immediate), len(b.Developing))
	}

	for _, pl := range []quantik.Player{quantik.PlayerA, quantik.PlayerB} {
		th := FindThreats(pos, pl)
		imm, dev := CountThreats(pos, pl)
		if imm != len(th.Immediate) || dev != len(th.Developing) {
			t.Fatalf("%s: CountThreats %d/%d, FindThreats %d/%d", pl, imm, dev, len(th.Immediate), len(th.Developing))
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		pos  string
		line int
		pl   quantik.Player
		ok   bool
		kind ThreatKind
	}{
		{"mixed owners count for both", "Cs2/4/4/4 a", 0, quantik.PlayerB, true, Developing},
		{"mixed owners immediate", "CsT1/4/4/4 b", 0, quantik.PlayerA, true, Immediate},
		{"duplicate shape is dead", "CSC1/4/4/4 b", 0, quantik.PlayerA, false, 0},
		{"no own piece", "cst1/4/4/4 a", 0, quantik.PlayerA, false, 0},
		{"single piece", "C3/4/4/4 b", 0, quantik.PlayerA, false, 0},
		{"zone", "CS2/T3/4/4 b", 8, quantik.PlayerA, true, Immediate},
		{"full line", "CSTD/4/4/4 b", 0, quantik.PlayerA, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := quantik.MustDecode(tt.pos)
			th, ok := ClassifyLine(pos, tt.line, tt.pl)
			if ok != tt.ok {
				t.Fatalf("ok: got %v want %v", ok, tt.ok)
			}
			if ok && th.Kind != tt.kind {
				t.Fatalf("kind: got %s want %s", th.Kind, tt.kind)
			}
		})
	}
}

func TestWinningMovesIgnoreOwnership(t *testing.T) {
	pos := quantik.MustDecode(rowWinForA)
	want := quantik.Move{Row: 0, Col: 3, Shape: quantik.Diamond}

	for _, pl := range []quantik.Player{quantik.PlayerA, quantik.PlayerB} {
		wins := WinningMoves(pos, pl)
		if len(wins) != 1 || wins[0] != want {
			t.Fatalf("%s winning moves: got %v want [%v]", pl, wins, want)
		}
		if !HasWinningMove(pos, pl) {
			t.Fatalf("%s should have a winning move", pl)
		}
	}

	// An opposing diamond in column d makes the completion illegal for A.
	blocked := quantik.MustDecode("CST1/4/t3/3d a")
	if HasWinningMove(blocked, quantik.PlayerA) {
		t.Fatalf("A cannot place a diamond next to an opposing diamond")
	}
	if !HasWinningMove(blocked, quantik.PlayerB) {
		t.Fatalf("B may repeat its own diamond in column d")
	}
}
