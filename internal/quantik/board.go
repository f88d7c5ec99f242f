package quantik

const (
	Rows     = 4
	Cols     = 4
	NumCells = Rows * Cols

	NumLines = 12
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// SquareOf returns the cell index of (row, col).
func SquareOf(row, col int) int { return indexOf(row, col) }

// RowCol is the inverse of SquareOf.
func RowCol(sq int) (int, int) { return rowOf(sq), colOf(sq) }

// ZoneOf returns 0..3: top-left, top-right, bottom-left, bottom-right.
func ZoneOf(row, col int) int {
	z := 0
	if row >= 2 {
		z += 2
	}
	if col >= 2 {
		z++
	}
	return z
}

// LineKind tells rows, columns and zones apart.
type LineKind int8

const (
	LineRow LineKind = iota
	LineCol
	LineZone
)

// Lines 0-3 are rows, 4-7 columns, 8-11 zones.
var Lines [NumLines][4]int

// CellLines[sq] holds the row, column and zone lines through sq.
var CellLines [NumCells][3]int

func init() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			Lines[r][c] = indexOf(r, c)
			Lines[4+c][r] = indexOf(r, c)
		}
	}
	for z := 0; z < 4; z++ {
		r0, c0 := (z/2)*2, (z%2)*2
		Lines[8+z] = [4]int{
			indexOf(r0, c0), indexOf(r0, c0+1),
			indexOf(r0+1, c0), indexOf(r0+1, c0+1),
		}
	}
	for sq := 0; sq < NumCells; sq++ {
		r, c := rowOf(sq), colOf(sq)
		CellLines[sq] = [3]int{r, 4 + c, 8 + ZoneOf(r, c)}
	}
}

func (k LineKind) String() string {
	switch k {
	case LineRow:
		return "row"
	case LineCol:
		return "column"
	}
	return "zone"
}

func LineKindOf(line int) LineKind {
	switch {
	case line < 4:
		return LineRow
	case line < 8:
		return LineCol
	}
	return LineZone
}

type Board struct {
	Cells [NumCells]Piece
}

func (b *Board) At(row, col int) Piece { return b.Cells[indexOf(row, col)] }

func (b *Board) Set(row, col int, pc Piece) { b.Cells[indexOf(row, col)] = pc }

// IsCenter reports whether sq is one of the four middle cells.
func IsCenter(sq int) bool {
	r, c := rowOf(sq), colOf(sq)
	return (r == 1 || r == 2) && (c == 1 || c == 2)
}

// IsCorner reports whether sq is one of the four corner cells.
func IsCorner(sq int) bool {
	r, c := rowOf(sq), colOf(sq)
	return (r == 0 || r == Rows-1) && (c == 0 || c == Cols-1)
}

// CenterSquares in row-major order.
var CenterSquares = [4]int{5, 6, 9, 10}
