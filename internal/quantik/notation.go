package quantik

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var letterToShape = map[rune]Shape{
	'c': Circle,
	's': Square,
	't': Triangle,
	'd': Diamond,
}

var shapeLetters = [NumShapes]rune{'c', 's', 't', 'd'}

func pieceToChar(pc Piece) rune {
	if pc == NoPiece {
		return '.'
	}
	ch := shapeLetters[pc.Shape()]
	if pc.Player() == PlayerA {
		return unicode.ToUpper(ch)
	}
	return ch
}

// Encode: four rows joined by "/", empties compressed to digits,
// uppercase = player A, lowercase = player B, then " a" or " b".
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			pc := p.Board.Cells[indexOf(r, c)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pieceToChar(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if p.SideToMove == PlayerB {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('a')
	}
	return sb.String()
}

var ErrInvalidNotation = errors.New("invalid notation")

// DecodePosition parses Encode's format. The inventory is derived from the
// board, so the result always satisfies the inventory invariant.
func DecodePosition(s string) (*Position, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: want board and side, got %d fields", ErrInvalidNotation, len(parts))
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidNotation, len(rows))
	}
	var b Board
	for r := 0; r < Rows; r++ {
		c := 0
		for _, ch := range rows[r] {
			if c >= Cols {
				return nil, fmt.Errorf("%w: row %d too long", ErrInvalidNotation, r+1)
			}
			if ch >= '1' && ch <= '4' {
				c += int(ch - '0')
				continue
			}
			if ch == '.' {
				c++
				continue
			}
			shape, ok := letterToShape[unicode.ToLower(ch)]
			if !ok {
				return nil, fmt.Errorf("%w: row %d: unexpected %q", ErrInvalidNotation, r+1, ch)
			}
			pl := PlayerB
			if unicode.IsUpper(ch) {
				pl = PlayerA
			}
			b.Cells[indexOf(r, c)] = MakePiece(pl, shape)
			c++
		}
		if c != Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidNotation, r+1, c)
		}
	}

	var side Player
	switch parts[1] {
	case "a", "A":
		side = PlayerA
	case "b", "B":
		side = PlayerB
	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidNotation, parts[1])
	}

	inv := FullInventory()
	for _, pc := range b.Cells {
		if pc == NoPiece {
			continue
		}
		inv[pc.Player()][pc.Shape()]--
		if inv[pc.Player()][pc.Shape()] < 0 {
			return nil, fmt.Errorf("%w: too many %s pieces of %s", ErrInvalidNotation, pc.Shape(), pc.Player())
		}
	}
	pos := &Position{Board: b, Inventory: inv, SideToMove: side}
	pos.Key = pos.CalculateKey()
	return pos, nil
}

// MustDecode panics on malformed input; for tests and fixed tables.
func MustDecode(s string) *Position {
	pos, err := DecodePosition(s)
	if err != nil {
		panic(err.Error() + ": " + s)
	}
	return pos
}

// String renders a 4x4 grid with coordinates.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d\n")
	for r := 0; r < Rows; r++ {
		sb.WriteByte(byte('1' + r))
		for c := 0; c < Cols; c++ {
			sb.WriteByte(' ')
			sb.WriteRune(pieceToChar(p.Board.Cells[indexOf(r, c)]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("to move: ")
	sb.WriteString(p.SideToMove.String())
	return sb.String()
}

// PieceRune exposes the notation letter of a piece for renderers.
func PieceRune(pc Piece) rune { return pieceToChar(pc) }
