package minichess

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

func fileLabel(col int) string { return chess.File(col).String() }

// rankLabel numbers ranks from the bottom row, so row 0 is rank height.
func (b *Board) rankLabel(row int) string { return chess.Rank(b.height - 1 - row).String() }

// SquareName returns the algebraic name of sq, e.g. "a1" for the bottom-left square.
func (b *Board) SquareName(sq Square) string {
	if !b.InBounds(sq.Row, sq.Col) {
		return "-"
	}
	return fileLabel(sq.Col) + b.rankLabel(sq.Row)
}

// ParseSquare is the inverse of SquareName.
func (b *Board) ParseSquare(name string) (Square, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, name)
	}
	col := int(name[0] - 'a')
	rank := int(name[1] - '0')
	row := b.height - rank
	if !b.InBounds(row, col) {
		return Square{}, fmt.Errorf("%w: %q is off a %dx%d board", ErrBadSquare, name, b.width, b.height)
	}
	return Sq(row, col), nil
}

// MoveString renders m as origin and destination names, e.g. "e1e6".
func (b *Board) MoveString(m Move) string {
	return b.SquareName(m.From) + b.SquareName(m.To)
}

// ParseMove parses the MoveString form.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return Move{}, fmt.Errorf("%w: move %q", ErrBadSquare, s)
	}
	from, err := b.ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := b.ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}
