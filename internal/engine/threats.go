package engine

import (
	"math/bits"
	"sort"

	"quantik/internal/quantik"
)

type ThreatKind int8

const (
	Immediate  ThreatKind = iota // 3 distinct shapes, 1 vacancy
	Developing                   // 2 distinct shapes, 2 vacancies
)

func (k ThreatKind) String() string {
	if k == Immediate {
		return "immediate"
	}
	return "developing"
}

// Threat is a line that can still become a four-shape win and in which For
// already owns at least one piece.
type Threat struct {
	Line      int
	Kind      ThreatKind
	For       quantik.Player
	Vacant    [2]int
	NumVacant int
	Owned     int // pieces of For in the line
	Opposing  int // pieces of the other player in the line
	Missing   uint8
}

func (t Threat) Vacancies() []int { return t.Vacant[:t.NumVacant] }

func (t Threat) Resolves(sq int) bool {
	for i := 0; i < t.NumVacant; i++ {
		if t.Vacant[i] == sq {
			return true
		}
	}
	return false
}

// lineStats scans one line. dup is true when two filled cells share a shape,
// in which case the line can never hold four distinct shapes.
type lineStats struct {
	filled  int
	shapes  uint8 // bitmask of shapes present
	dup     bool
	owned   [quantik.NumPlayers]int
	vacant  [4]int
	nVacant int
}

func scanLine(pos *quantik.Position, line int) lineStats {
	var st lineStats
	for _, sq := range quantik.Lines[line] {
		pc := pos.Board.Cells[sq]
		if pc == quantik.NoPiece {
			st.vacant[st.nVacant] = sq
			st.nVacant++
			continue
		}
		st.filled++
		bit := uint8(1) << uint(pc.Shape())
		if st.shapes&bit != 0 {
			st.dup = true
		}
		st.shapes |= bit
		st.owned[pc.Player()]++
	}
	return st
}

// ClassifyLine classifies by occupancy, not legality: whoever completes a
// four-shape line wins, regardless of who owns the other cells.
func ClassifyLine(pos *quantik.Position, line int, pl quantik.Player) (Threat, bool) {
	st := scanLine(pos, line)
	if st.dup || st.owned[pl] == 0 {
		return Threat{}, false
	}
	distinct := bits.OnesCount8(st.shapes)
	var kind ThreatKind
	switch {
	case st.filled == 3 && distinct == 3:
		kind = Immediate
	case st.filled == 2 && distinct == 2:
		kind = Developing
	default:
		return Threat{}, false
	}
	t := Threat{
		Line:      line,
		Kind:      kind,
		For:       pl,
		NumVacant: st.nVacant,
		Owned:     st.owned[pl],
		Opposing:  st.owned[pl.Opponent()],
		Missing:   ^st.shapes & 0x0F,
	}
	copy(t.Vacant[:], st.vacant[:st.nVacant])
	return t, true
}

type Threats struct {
	Immediate  []Threat
	Developing []Threat
}

// FindThreats returns every immediate and developing threat of pl over the 12 lines.
func FindThreats(pos *quantik.Position, pl quantik.Player) Threats {
	var out Threats
	for line := 0; line < quantik.NumLines; line++ {
		t, ok := ClassifyLine(pos, line, pl)
		if !ok {
			continue
		}
		if t.Kind == Immediate {
			out.Immediate = append(out.Immediate, t)
		} else {
			out.Developing = append(out.Developing, t)
		}
	}
	return out
}

// CountThreats is FindThreats without the allocations.
func CountThreats(pos *quantik.Position, pl quantik.Player) (immediate, developing int) {
	for line := 0; line < quantik.NumLines; line++ {
		st := scanLine(pos, line)
		if st.dup || st.owned[pl] == 0 {
			continue
		}
		distinct := bits.OnesCount8(st.shapes)
		switch {
		case st.filled == 3 && distinct == 3:
			immediate++
		case st.filled == 2 && distinct == 2:
			developing++
		}
	}
	return immediate, developing
}

func countImmediate(pos *quantik.Position, pl quantik.Player) int {
	n, _ := CountThreats(pos, pl)
	return n
}

// WinningMoves lists moves that complete a line for pl right now, in canonical order.
func WinningMoves(pos *quantik.Position, pl quantik.Player) []quantik.Move {
	var out []quantik.Move
	var seen [quantik.NumCells]uint8
	for line := 0; line < quantik.NumLines; line++ {
		st := scanLine(pos, line)
		if st.dup || st.filled != 3 {
			continue
		}
		sq := st.vacant[0]
		missing := quantik.Shape(bits.TrailingZeros8(^st.shapes & 0x0F))
		if seen[sq]&(1<<uint(missing)) != 0 {
			continue
		}
		r, c := quantik.RowCol(sq)
		mv := quantik.Move{Row: r, Col: c, Shape: missing}
		if pos.CanPlay(mv, pl) {
			seen[sq] |= 1 << uint(missing)
			out = append(out, mv)
		}
	}
	sortCanonical(out)
	return out
}

// HasWinningMove reports whether pl could complete a line with one placement.
func HasWinningMove(pos *quantik.Position, pl quantik.Player) bool {
	for line := 0; line < quantik.NumLines; line++ {
		st := scanLine(pos, line)
		if st.dup || st.filled != 3 {
			continue
		}
		r, c := quantik.RowCol(st.vacant[0])
		missing := quantik.Shape(bits.TrailingZeros8(^st.shapes & 0x0F))
		if pos.CanPlay(quantik.Move{Row: r, Col: c, Shape: missing}, pl) {
			return true
		}
	}
	return false
}

func canonicalLess(a, b quantik.Move) bool {
	sa, sb := a.Square(), b.Square()
	if sa != sb {
		return sa < sb
	}
	return a.Shape < b.Shape
}

func sortCanonical(moves []quantik.Move) {
	sort.Slice(moves, func(i, j int) bool { return canonicalLess(moves[i], moves[j]) })
}
