package minichess

import "fmt"

// Outcome classifies a position for the side to move. It is derived from
// the board on demand and never stored.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	default:
		return fmt.Sprintf("outcome(%d)", o)
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Over reports whether the game has ended.
func (o Outcome) Over() bool { return o != Ongoing }

// GameOutcome classifies the position with toMove to play. A board holding
// only kings is a draw by insufficient material regardless of the side to move.
func GameOutcome(b *Board, toMove Side) Outcome {
	if b.onlyKings() {
		return InsufficientMaterial
	}
	if HasLegalMove(b, toMove) {
		return Ongoing
	}
	if InCheck(b, toMove) {
		return Checkmate
	}
	return Stalemate
}
