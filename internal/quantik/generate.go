package quantik

// LegalMoves lists every playable move for pl, row-major then shape order.
func (p *Position) LegalMoves(pl Player) []Move {
	return p.AppendLegalMoves(make([]Move, 0, NumCells*NumShapes), pl)
}

func (p *Position) AppendLegalMoves(dst []Move, pl Player) []Move {
	if pl != PlayerA && pl != PlayerB {
		return dst
	}
	for sq := 0; sq < NumCells; sq++ {
		if p.Board.Cells[sq] != NoPiece {
			continue
		}
		r, c := rowOf(sq), colOf(sq)
		for _, s := range Shapes {
			if p.Inventory[pl][s] <= 0 {
				continue
			}
			mv := Move{Row: r, Col: c, Shape: s}
			if p.IsLegalFor(mv, pl) {
				dst = append(dst, mv)
			}
		}
	}
	return dst
}

func (p *Position) HasAnyLegalMove(pl Player) bool {
	if pl != PlayerA && pl != PlayerB {
		return false
	}
	for sq := 0; sq < NumCells; sq++ {
		if p.Board.Cells[sq] != NoPiece {
			continue
		}
		r, c := rowOf(sq), colOf(sq)
		for _, s := range Shapes {
			if p.Inventory[pl][s] > 0 && p.IsLegalFor(Move{Row: r, Col: c, Shape: s}, pl) {
				return true
			}
		}
	}
	return false
}

// CountLegalMoves is len(LegalMoves(pl)) without the allocation.
func (p *Position) CountLegalMoves(pl Player) int {
	if pl != PlayerA && pl != PlayerB {
		return 0
	}
	n := 0
	for sq := 0; sq < NumCells; sq++ {
		if p.Board.Cells[sq] != NoPiece {
			continue
		}
		r, c := rowOf(sq), colOf(sq)
		for _, s := range Shapes {
			if p.Inventory[pl][s] > 0 && p.IsLegalFor(Move{Row: r, Col: c, Shape: s}, pl) {
				n++
			}
		}
	}
	return n
}
