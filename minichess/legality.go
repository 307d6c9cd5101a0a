package minichess

// FindKing scans for side's king.
func FindKing(b *Board, side Side) (Square, bool) {
	for idx, pc := range b.cells {
		if pc.Kind == King && pc.Side == side {
			return Sq(idx/b.width, idx%b.width), true
		}
	}
	return Square{}, false
}

// InCheck reports whether any opposing piece has a pseudo-legal move onto
// side's king. A board without that king is never in check.
func InCheck(b *Board, side Side) bool {
	king, ok := FindKing(b, side)
	if !ok {
		return false
	}
	return squareAttacked(b, king, side.Opponent())
}

func squareAttacked(b *Board, target Square, by Side) bool {
	for idx, pc := range b.cells {
		if pc.IsZero() || pc.Side != by {
			continue
		}
		for _, dst := range b.PseudoLegalMoves(idx/b.width, idx%b.width) {
			if dst == target {
				return true
			}
		}
	}
	return false
}

// LegalMoves filters the pseudo-legal destinations of the piece on (row, col)
// to those that do not leave its own king in check. Each candidate is played
// on b and taken back before the next one is tried.
func LegalMoves(b *Board, row, col int) []Square {
	pc, ok := b.GetPiece(row, col)
	if !ok {
		return nil
	}
	from := Sq(row, col)
	var legal []Square
	for _, to := range b.PseudoLegalMoves(row, col) {
		if !leavesKingInCheck(b, from, to, pc.Side) {
			legal = append(legal, to)
		}
	}
	return legal
}

func leavesKingInCheck(b *Board, from, to Square, side Side) bool {
	rec := b.MakeMove(from, to)
	check := InCheck(b, side)
	b.UndoMove(from, to, rec)
	return check
}

// LegalMovesFor lists every legal move of side in board order.
func LegalMovesFor(b *Board, side Side) []Move {
	var moves []Move
	for _, from := range b.Pieces(side) {
		for _, to := range LegalMoves(b, from.Row, from.Col) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// HasLegalMove stops at the first legal move found.
func HasLegalMove(b *Board, side Side) bool {
	for _, from := range b.Pieces(side) {
		for _, to := range b.PseudoLegalMoves(from.Row, from.Col) {
			if !leavesKingInCheck(b, from, to, side) {
				return true
			}
		}
	}
	return false
}

// IsLegal reports whether m is a legal move for the piece standing on m.From.
func IsLegal(b *Board, m Move) bool {
	for _, to := range LegalMoves(b, m.From.Row, m.From.Col) {
		if to == m.To {
			return true
		}
	}
	return false
}

// ControlledSquares counts the distinct squares side's pieces reach with
// pseudo-legal moves.
func ControlledSquares(b *Board, side Side) int {
	seen := make(map[Square]struct{})
	for _, from := range b.Pieces(side) {
		for _, to := range b.PseudoLegalMoves(from.Row, from.Col) {
			seen[to] = struct{}{}
		}
	}
	return len(seen)
}
