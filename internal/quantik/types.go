package quantik

type Player int8

const (
	NoPlayer Player = -1
	PlayerA  Player = 0
	PlayerB  Player = 1
)

const NumPlayers = 2

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return NoPlayer
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "-"
}

type Shape int8

const (
	Circle Shape = iota
	Square
	Triangle
	Diamond
)

const NumShapes = 4

// Shapes lists the shapes in declared order; move generation follows it.
var Shapes = [NumShapes]Shape{Circle, Square, Triangle, Diamond}

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Diamond:
		return "diamond"
	}
	return "?"
}

func (s Shape) Valid() bool { return s >= 0 && s < NumShapes }

// Piece 0 = empty; 1..8 = 1 + player*4 + shape.
type Piece int8

const NoPiece Piece = 0

func MakePiece(pl Player, s Shape) Piece {
	if (pl != PlayerA && pl != PlayerB) || !s.Valid() {
		return NoPiece
	}
	return Piece(1 + int8(pl)*NumShapes + int8(s))
}

func (p Piece) Empty() bool { return p == NoPiece }

func (p Piece) Shape() Shape {
	if p == NoPiece {
		return -1
	}
	return Shape((p - 1) % NumShapes)
}

func (p Piece) Player() Player {
	if p == NoPiece {
		return NoPlayer
	}
	return Player((p - 1) / NumShapes)
}

// Move does not carry the player: it is implied by the side to move.
type Move struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Shape Shape `json:"shape"`
}

func (m Move) Square() int { return indexOf(m.Row, m.Col) }

func (m Move) String() string {
	return string(rune('a'+m.Col)) + string(rune('1'+m.Row)) + ":" + m.Shape.String()
}

// Inventory[player][shape] = pieces left to place.
type Inventory [NumPlayers][NumShapes]int

const PiecesPerShape = 2

func FullInventory() Inventory {
	var inv Inventory
	for pl := 0; pl < NumPlayers; pl++ {
		for s := 0; s < NumShapes; s++ {
			inv[pl][s] = PiecesPerShape
		}
	}
	return inv
}

func (inv *Inventory) Total(pl Player) int {
	n := 0
	for _, c := range inv[pl] {
		n += c
	}
	return n
}
