package minichess

type offset struct{ dr, dc int }

var (
	rookDirections   = [...]offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = [...]offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirections  = [...]offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightOffsets    = [...]offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets      = [...]offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoLegalMoves returns the destinations the piece on (row, col) may reach
// by its movement rules, ignoring the safety of its own king. Empty and
// out-of-range squares yield nil.
func (b *Board) PseudoLegalMoves(row, col int) []Square {
	pc, ok := b.GetPiece(row, col)
	if !ok {
		return nil
	}
	switch pc.Kind {
	case Pawn:
		return b.pawnMoves(row, col, pc.Side)
	case Knight:
		return b.stepMoves(row, col, pc.Side, knightOffsets[:])
	case Bishop:
		return b.slidingMoves(row, col, pc.Side, bishopDirections[:])
	case Rook:
		return b.slidingMoves(row, col, pc.Side, rookDirections[:])
	case Queen:
		return b.slidingMoves(row, col, pc.Side, queenDirections[:])
	case King:
		return b.stepMoves(row, col, pc.Side, kingOffsets[:])
	default:
		return nil
	}
}

func (b *Board) pawnDirection(side Side) (dir, startRow int) {
	if side == White {
		return -1, b.height - 2
	}
	return 1, 1
}

func (b *Board) pawnMoves(row, col int, side Side) []Square {
	var moves []Square
	dir, startRow := b.pawnDirection(side)

	fwd := row + dir
	if b.InBounds(fwd, col) && b.At(Sq(fwd, col)).IsZero() {
		moves = append(moves, Sq(fwd, col))
		double := row + 2*dir
		if row == startRow && b.InBounds(double, col) && b.At(Sq(double, col)).IsZero() {
			moves = append(moves, Sq(double, col))
		}
	}

	for _, dc := range [...]int{-1, 1} {
		if target, ok := b.GetPiece(fwd, col+dc); ok && target.Side != side {
			moves = append(moves, Sq(fwd, col+dc))
		}
	}
	return moves
}

func (b *Board) slidingMoves(row, col int, side Side, dirs []offset) []Square {
	var moves []Square
	for _, d := range dirs {
		r, c := row+d.dr, col+d.dc
		for b.InBounds(r, c) {
			occupant := b.At(Sq(r, c))
			if occupant.IsZero() {
				moves = append(moves, Sq(r, c))
				r += d.dr
				c += d.dc
				continue
			}
			if occupant.Side != side {
				moves = append(moves, Sq(r, c))
			}
			break
		}
	}
	return moves
}

func (b *Board) stepMoves(row, col int, side Side, deltas []offset) []Square {
	var moves []Square
	for _, d := range deltas {
		r, c := row+d.dr, col+d.dc
		if !b.InBounds(r, c) {
			continue
		}
		if occupant := b.At(Sq(r, c)); occupant.IsZero() || occupant.Side != side {
			moves = append(moves, Sq(r, c))
		}
	}
	return moves
}
