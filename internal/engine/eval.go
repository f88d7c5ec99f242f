package engine

import (
	"math/bits"

	"quantik/internal/quantik"
)

const (
	centerWeight = 20
	edgeWeight   = 10
	cornerWeight = 5

	linePotentialWeight = 10 // times (distinct own shapes)^2
	nearWinBonus        = 40 // own line one placement from four shapes

	ownImmediateWeight  = 150
	ownDevelopingWeight = 40
	oppImmediateWeight  = 300
	oppDevelopingWeight = 60
	mobilityWeight      = 2
)

// cellWeight: the centre touches the most open lines, corners the fewest.
var cellWeight [quantik.NumCells]int

func init() {
	for sq := 0; sq < quantik.NumCells; sq++ {
		switch {
		case quantik.IsCenter(sq):
			cellWeight[sq] = centerWeight
		case quantik.IsCorner(sq):
			cellWeight[sq] = cornerWeight
		default:
			cellWeight[sq] = edgeWeight
		}
	}
}

// Evaluate scores pos from me's point of view. Zero on the empty board and on
// threat-free positions that are symmetric between the players; opponent
// threats weigh more than our own so that defence wins ties.
func Evaluate(pos *quantik.Position, me quantik.Player) int {
	opp := me.Opponent()
	score := 0

	for sq, pc := range pos.Board.Cells {
		if pc == quantik.NoPiece {
			continue
		}
		if pc.Player() == me {
			score += cellWeight[sq]
		} else {
			score -= cellWeight[sq]
		}
	}

	score += linePotential(pos, me) - linePotential(pos, opp)

	myImm, myDev := CountThreats(pos, me)
	oppImm, oppDev := CountThreats(pos, opp)
	score += myImm*ownImmediateWeight + myDev*ownDevelopingWeight
	score -= oppImm*oppImmediateWeight + oppDev*oppDevelopingWeight

	score += (pos.CountLegalMoves(me) - pos.CountLegalMoves(opp)) * mobilityWeight
	return score
}

// linePotential sums d^2 over lines where pl holds d distinct shapes and the
// other player holds nothing. Lines with a repeated shape are dead.
func linePotential(pos *quantik.Position, pl quantik.Player) int {
	total := 0
	for line := 0; line < quantik.NumLines; line++ {
		st := scanLine(pos, line)
		if st.dup || st.owned[pl] == 0 || st.owned[pl.Opponent()] > 0 {
			continue
		}
		d := bits.OnesCount8(st.shapes)
		total += linePotentialWeight * d * d
		if d == 3 {
			total += nearWinBonus
		}
	}
	return total
}
