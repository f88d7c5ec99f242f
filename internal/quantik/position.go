package quantik

import (
	"errors"
	"fmt"
)

// Position = board + remaining pieces + side to move.
// Apply and Undo are exact inverses; nothing else mutates a Position during play.
type Position struct {
	Board      Board
	Inventory  Inventory
	SideToMove Player
	Key        Key
}

var ErrInvalidPosition = errors.New("invalid position")

func NewInitialPosition() *Position {
	pos := &Position{
		Inventory:  FullInventory(),
		SideToMove: PlayerA,
	}
	pos.Key = pos.CalculateKey()
	return pos
}

// NewPosition builds a position from a caller snapshot. The arrays are copied,
// so the caller keeps ownership of its own structures.
func NewPosition(b Board, inv Inventory, side Player) (*Position, error) {
	if side != PlayerA && side != PlayerB {
		return nil, fmt.Errorf("%w: side %d", ErrInvalidPosition, side)
	}
	for sq, pc := range b.Cells {
		if pc < NoPiece || pc > MakePiece(PlayerB, Diamond) {
			return nil, fmt.Errorf("%w: cell %d holds %d", ErrInvalidPosition, sq, pc)
		}
	}
	for pl := 0; pl < NumPlayers; pl++ {
		for s := 0; s < NumShapes; s++ {
			if inv[pl][s] < 0 || inv[pl][s] > PiecesPerShape {
				return nil, fmt.Errorf("%w: inventory %s/%s = %d", ErrInvalidPosition, Player(pl), Shape(s), inv[pl][s])
			}
		}
	}
	pos := &Position{Board: b, Inventory: inv, SideToMove: side}
	pos.Key = pos.CalculateKey()
	return pos, nil
}

// CheckInventory verifies remaining + on-board = PiecesPerShape for every (player, shape).
func (p *Position) CheckInventory() error {
	var placed [NumPlayers][NumShapes]int
	for _, pc := range p.Board.Cells {
		if pc != NoPiece {
			placed[pc.Player()][pc.Shape()]++
		}
	}
	for pl := 0; pl < NumPlayers; pl++ {
		for s := 0; s < NumShapes; s++ {
			if placed[pl][s]+p.Inventory[pl][s] != PiecesPerShape {
				return fmt.Errorf("%w: %s/%s placed %d, remaining %d", ErrInvalidPosition,
					Player(pl), Shape(s), placed[pl][s], p.Inventory[pl][s])
			}
		}
	}
	return nil
}

func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

func (p *Position) PiecesPlaced() int {
	n := 0
	for _, pc := range p.Board.Cells {
		if pc != NoPiece {
			n++
		}
	}
	return n
}

func (p *Position) EmptyCells() int { return NumCells - p.PiecesPlaced() }

// IsLegal checks mv for the side to move.
func (p *Position) IsLegal(mv Move) bool { return p.IsLegalFor(mv, p.SideToMove) }

// IsLegalFor: the target cell must be empty and no opposing piece of the same
// shape may sit in the move's row, column or zone. Repeating one's own shape is fine.
// Inventory is not consulted; see CanPlay.
func (p *Position) IsLegalFor(mv Move, pl Player) bool {
	if !onBoard(mv.Row, mv.Col) || !mv.Shape.Valid() {
		return false
	}
	sq := indexOf(mv.Row, mv.Col)
	if p.Board.Cells[sq] != NoPiece {
		return false
	}
	for _, line := range CellLines[sq] {
		for _, c := range Lines[line] {
			pc := p.Board.Cells[c]
			if pc != NoPiece && pc.Shape() == mv.Shape && pc.Player() != pl {
				return false
			}
		}
	}
	return true
}

// CanPlay = IsLegalFor plus a piece of that shape left in pl's inventory.
func (p *Position) CanPlay(mv Move, pl Player) bool {
	if (pl != PlayerA && pl != PlayerB) || !mv.Shape.Valid() {
		return false
	}
	return p.Inventory[pl][mv.Shape] > 0 && p.IsLegalFor(mv, pl)
}

// Apply places mv for the side to move and passes the turn.
// An illegal move leaves the position untouched and returns false.
func (p *Position) Apply(mv Move) bool {
	pl := p.SideToMove
	if !p.CanPlay(mv, pl) {
		return false
	}
	sq := indexOf(mv.Row, mv.Col)
	pc := MakePiece(pl, mv.Shape)
	p.Board.Cells[sq] = pc
	p.Inventory[pl][mv.Shape]--
	p.SideToMove = pl.Opponent()
	p.Key.togglePiece(pc, sq)
	p.Key.Meta = p.metaKey()
	return true
}

// Undo reverses a prior successful Apply of mv. Calls must be LIFO.
func (p *Position) Undo(mv Move) {
	sq := indexOf(mv.Row, mv.Col)
	pc := p.Board.Cells[sq]
	if pc == NoPiece {
		return
	}
	owner := pc.Player()
	p.Board.Cells[sq] = NoPiece
	p.Inventory[owner][pc.Shape()]++
	p.SideToMove = owner
	p.Key.togglePiece(pc, sq)
	p.Key.Meta = p.metaKey()
}

// lineComplete: all four cells filled with pairwise distinct shapes.
func (p *Position) lineComplete(line int) bool {
	var seen uint8
	for _, sq := range Lines[line] {
		pc := p.Board.Cells[sq]
		if pc == NoPiece {
			return false
		}
		bit := uint8(1) << uint(pc.Shape())
		if seen&bit != 0 {
			return false
		}
		seen |= bit
	}
	return true
}

// CheckVictory ignores ownership: any line holding four distinct shapes wins
// for whoever placed the last piece.
func (p *Position) CheckVictory() bool {
	_, ok := p.WinningLine()
	return ok
}

func (p *Position) WinningLine() (int, bool) {
	for line := 0; line < NumLines; line++ {
		if p.lineComplete(line) {
			return line, true
		}
	}
	return -1, false
}

// CompletesLine reports whether sq sits on a complete line. Cheaper than
// CheckVictory right after a move on sq, since only the three lines through sq can change.
func (p *Position) CompletesLine(sq int) bool {
	for _, line := range CellLines[sq] {
		if p.lineComplete(line) {
			return true
		}
	}
	return false
}
