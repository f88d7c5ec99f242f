package quantik

// Key packs a position into a fixed-size comparable value: 4 bits per cell
// (piece code) plus remaining totals and side to move. No allocation on lookup.
type Key struct {
	Cells uint64
	Meta  uint16
}

func (k *Key) togglePiece(pc Piece, sq int) {
	if pc == NoPiece || sq < 0 || sq >= NumCells {
		return
	}
	k.Cells ^= uint64(pc) << (4 * uint(sq))
}

func (p *Position) metaKey() uint16 {
	a := uint16(p.Inventory.Total(PlayerA)) & 0xF
	b := uint16(p.Inventory.Total(PlayerB)) & 0xF
	side := uint16(0)
	if p.SideToMove == PlayerB {
		side = 1
	}
	return a | b<<4 | side<<8
}

// CalculateKey recomputes the key from scratch.
func (p *Position) CalculateKey() Key {
	var k Key
	for sq := 0; sq < NumCells; sq++ {
		k.togglePiece(p.Board.Cells[sq], sq)
	}
	k.Meta = p.metaKey()
	return k
}

// EnsureKey refreshes Key for positions assembled by hand.
func (p *Position) EnsureKey() Key {
	p.Key = p.CalculateKey()
	return p.Key
}
