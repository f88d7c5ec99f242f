package quantik

import (
	"math/rand"
	"testing"
)

func TestInitialPositionHas64LegalMoves(t *testing.T) {
	pos := NewInitialPosition()
	moves := pos.LegalMoves(pos.SideToMove)
	if len(moves) != 64 {
		t.Fatalf("legal moves on empty board: got %d want 64", len(moves))
	}
	// row-major, then declared shape order
	if moves[0] != (Move{Row: 0, Col: 0, Shape: Circle}) || moves[3] != (Move{Row: 0, Col: 0, Shape: Diamond}) {
		t.Fatalf("unexpected ordering: %v %v", moves[0], moves[3])
	}
	if moves[63] != (Move{Row: 3, Col: 3, Shape: Diamond}) {
		t.Fatalf("unexpected last move: %v", moves[63])
	}
	if !pos.HasAnyLegalMove(PlayerA) || !pos.HasAnyLegalMove(PlayerB) {
		t.Fatalf("both players should have moves on an empty board")
	}
	if got := pos.CountLegalMoves(PlayerB); got != 64 {
		t.Fatalf("CountLegalMoves: got %d", got)
	}
}

func TestOpposingShapeBlocksRowColumnAndZone(t *testing.T) {
	pos := MustDecode("C3/4/4/4 b")

	blocked := map[int]bool{
		SquareOf(0, 0): true, SquareOf(0, 1): true, SquareOf(0, 2): true, SquareOf(0, 3): true,
		SquareOf(1, 0): true, SquareOf(2, 0): true, SquareOf(3, 0): true, SquareOf(1, 1): true,
	}
	legal := 0
	for sq := 0; sq < NumCells; sq++ {
		r, c := RowCol(sq)
		mv := Move{Row: r, Col: c, Shape: Circle}
		got := pos.IsLegalFor(mv, PlayerB)
		if got == blocked[sq] {
			t.Errorf("circle at (%d,%d) for B: legal=%v, blocked=%v", r, c, got, blocked[sq])
		}
		if got {
			legal++
		}
	}
	if legal != 8 {
		t.Fatalf("legal circle cells: got %d want 8", legal)
	}

	// the owner may repeat its own shape
	if !pos.IsLegalFor(Move{Row: 0, Col: 1, Shape: Circle}, PlayerA) {
		t.Fatalf("player A should be allowed to repeat its circle in row 0")
	}
	// other shapes are unaffected
	if !pos.IsLegalFor(Move{Row: 0, Col: 1, Shape: Square}, PlayerB) {
		t.Fatalf("square next to a circle should be legal")
	}
}

func TestIsLegalRejectsOutOfRange(t *testing.T) {
	pos := NewInitialPosition()
	bad := []Move{
		{Row: -1, Col: 0, Shape: Circle},
		{Row: 0, Col: 4, Shape: Circle},
		{Row: 0, Col: 0, Shape: 7},
	}
	for _, mv := range bad {
		if pos.IsLegal(mv) {
			t.Errorf("move %+v should be illegal", mv)
		}
		if pos.Apply(mv) {
			t.Errorf("apply %+v should fail", mv)
		}
	}
}

func TestApplyIllegalLeavesPositionUntouched(t *testing.T) {
	pos := MustDecode("C3/4/4/4 b")
	before := *pos
	if pos.Apply(Move{Row: 0, Col: 3, Shape: Circle}) {
		t.Fatalf("apply of a blocked circle succeeded")
	}
	if pos.Apply(Move{Row: 0, Col: 0, Shape: Square}) {
		t.Fatalf("apply on an occupied cell succeeded")
	}
	if *pos != before {
		t.Fatalf("position mutated by failed apply")
	}
}

func TestApplyRequiresInventory(t *testing.T) {
	pos := MustDecode("C3/4/4/C3 b")
	// B plays somewhere harmless, then A has no circle left.
	if !pos.Apply(Move{Row: 1, Col: 2, Shape: Square}) {
		t.Fatalf("setup move failed")
	}
	mv := Move{Row: 1, Col: 1, Shape: Circle}
	if !pos.IsLegal(mv) {
		t.Fatalf("placement itself should be legal")
	}
	if pos.Apply(mv) {
		t.Fatalf("apply should fail with no circles left")
	}
	for _, m := range pos.LegalMoves(PlayerA) {
		if m.Shape == Circle {
			t.Fatalf("legal moves include exhausted shape: %v", m)
		}
	}
}

func TestCheckVictoryIgnoresOwnership(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		win  bool
	}{
		{"mixed row", "CsTd/4/4/4 a", true},
		{"single owner row", "CSTD/4/4/4 b", true},
		{"column", "C3/s3/T3/d3 a", true},
		{"zone", "Cs2/Td2/4/4 a", true},
		{"bottom right zone", "4/4/2Cs/2Td a", true},
		{"duplicate shape", "CsTc/4/4/4 a", false},
		{"three pieces", "CsT1/4/4/4 a", false},
		{"empty", "4/4/4/4 a", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustDecode(tc.fen)
			if got := pos.CheckVictory(); got != tc.win {
				t.Fatalf("CheckVictory(%s) = %v, want %v", tc.fen, got, tc.win)
			}
		})
	}
}

func TestApplyUndoRestoresPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 40; game++ {
		pos := NewInitialPosition()
		for ply := 0; ply < NumCells; ply++ {
			moves := pos.LegalMoves(pos.SideToMove)
			if len(moves) == 0 {
				break
			}
			for _, mv := range moves {
				if !pos.IsLegal(mv) {
					t.Fatalf("generated move %v fails IsLegal in %s", mv, pos.Encode())
				}
				before := *pos
				if !pos.Apply(mv) {
					t.Fatalf("apply %v failed in %s", mv, before.Encode())
				}
				if pos.Key != pos.CalculateKey() {
					t.Fatalf("incremental key mismatch after %v", mv)
				}
				pos.Undo(mv)
				if *pos != before {
					t.Fatalf("apply/undo of %v changed %s into %s", mv, before.Encode(), pos.Encode())
				}
				if err := pos.CheckInventory(); err != nil {
					t.Fatalf("inventory invariant broken: %v", err)
				}
			}
			mv := moves[rng.Intn(len(moves))]
			pos.Apply(mv)
			if pos.CheckVictory() {
				break
			}
		}
	}
}

func TestNewPositionValidates(t *testing.T) {
	var b Board
	inv := FullInventory()
	if _, err := NewPosition(b, inv, NoPlayer); err == nil {
		t.Fatalf("expected error for invalid side")
	}
	inv[PlayerA][Circle] = 3
	if _, err := NewPosition(b, inv, PlayerA); err == nil {
		t.Fatalf("expected error for inventory overflow")
	}
	b.Cells[0] = 42
	if _, err := NewPosition(b, FullInventory(), PlayerA); err == nil {
		t.Fatalf("expected error for bad piece")
	}
}

func TestLinesTables(t *testing.T) {
	var membership [NumCells]int
	for _, line := range Lines {
		for _, sq := range line {
			membership[sq]++
		}
	}
	for sq, n := range membership {
		if n != 3 {
			t.Fatalf("cell %d belongs to %d lines", sq, n)
		}
		for _, line := range CellLines[sq] {
			found := false
			for _, c := range Lines[line] {
				if c == sq {
					found = true
				}
			}
			if !found {
				t.Fatalf("CellLines[%d] lists line %d which does not contain it", sq, line)
			}
		}
	}
	if Lines[8] != [4]int{0, 1, 4, 5} || Lines[11] != [4]int{10, 11, 14, 15} {
		t.Fatalf("zone tables wrong: %v %v", Lines[8], Lines[11])
	}
	for sq := 0; sq < NumCells; sq++ {
		if r, c := RowCol(sq); SquareOf(r, c) != sq {
			t.Fatalf("SquareOf(RowCol(%d)) = %d", sq, SquareOf(r, c))
		}
	}
	kinds := map[int]LineKind{0: LineRow, 3: LineRow, 4: LineCol, 7: LineCol, 8: LineZone, 11: LineZone}
	for line, want := range kinds {
		if got := LineKindOf(line); got != want {
			t.Fatalf("LineKindOf(%d) = %s, want %s", line, got, want)
		}
	}
}
