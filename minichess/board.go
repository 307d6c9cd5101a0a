package minichess

import (
	"fmt"
	"strings"
)

const (
	// DefaultWidth and DefaultHeight are the reference board dimensions.
	DefaultWidth  = 5
	DefaultHeight = 6

	maxDimension = 8
)

// Square is a grid coordinate. Row 0 is the top of the board (Black's home rank).
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square { return Square{Row: row, Col: col} }

// Move is an origin/destination pair. The moving and captured pieces are
// derived from the board when the move is applied.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// MoveRecord carries what MakeMove overwrote, so UndoMove can restore it.
type MoveRecord struct {
	Captured Piece
	Promoted bool
	Original Piece
}

// Board is the single mutable source of truth for a position.
type Board struct {
	width  int
	height int
	cells  []Piece
}

// NewBoard returns an empty board.
func NewBoard(width, height int) (*Board, error) {
	if width < 1 || height < 1 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrBoardSize, width, height)
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Piece, width*height),
	}, nil
}

var backRank = [...]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStandardBoard returns the starting position: back ranks on the outer rows,
// pawns in front of them, piece order truncated to the board width.
func NewStandardBoard(width, height int) (*Board, error) {
	if width < 5 || height < 4 {
		return nil, fmt.Errorf("%w: %dx%d needs at least 5x4", ErrBoardSize, width, height)
	}
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	for col := 0; col < width; col++ {
		b.Set(Sq(0, col), NewPiece(Black, backRank[col]))
		b.Set(Sq(1, col), NewPiece(Black, Pawn))
		b.Set(Sq(height-2, col), NewPiece(White, Pawn))
		b.Set(Sq(height-1, col), NewPiece(White, backRank[col]))
	}
	return b, nil
}

// ParseBoard builds a board from a diagram, top row first. '.' is empty,
// upper-case letters are White and lower-case letters are Black.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadBoard)
	}
	width := len(strings.TrimSpace(rows[0]))
	b, err := NewBoard(width, len(rows))
	if err != nil {
		return nil, err
	}
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has %d squares, want %d", ErrBadBoard, row, len(line), width)
		}
		for col, r := range line {
			pc, ok := pieceFromSymbol(r)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q at row %d", ErrBadBoard, r, row)
			}
			b.Set(Sq(row, col), pc)
		}
	}
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// InBounds reports whether the coordinate lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.height && col < b.width
}

// GetPiece is a bounds-checked read; out-of-range and empty squares both
// report false.
func (b *Board) GetPiece(row, col int) (Piece, bool) {
	if !b.InBounds(row, col) {
		return NoPiece, false
	}
	pc := b.cells[row*b.width+col]
	return pc, !pc.IsZero()
}

// At returns the piece on sq, or NoPiece.
func (b *Board) At(sq Square) Piece {
	pc, _ := b.GetPiece(sq.Row, sq.Col)
	return pc
}

// Set places pc on sq. Out-of-range squares are ignored.
func (b *Board) Set(sq Square, pc Piece) {
	if !b.InBounds(sq.Row, sq.Col) {
		return
	}
	b.cells[sq.Row*b.width+sq.Col] = pc
}

func (b *Board) promotionRow(side Side) int {
	if side == White {
		return 0
	}
	return b.height - 1
}

// MakeMove relocates whatever stands on from to to, overwriting any occupant,
// and promotes a pawn reaching its last rank to a queen. It does not check
// legality.
func (b *Board) MakeMove(from, to Square) MoveRecord {
	moving := b.At(from)
	rec := MoveRecord{Captured: b.At(to), Original: moving}

	b.Set(to, moving)
	b.Set(from, NoPiece)

	if moving.Kind == Pawn && to.Row == b.promotionRow(moving.Side) {
		b.Set(to, NewPiece(moving.Side, Queen))
		rec.Promoted = true
	}
	return rec
}

// UndoMove inverts the MakeMove call that produced rec.
func (b *Board) UndoMove(from, to Square, rec MoveRecord) {
	if rec.Promoted {
		b.Set(from, rec.Original)
	} else {
		b.Set(from, b.At(to))
	}
	b.Set(to, rec.Captured)
}

// Apply is MakeMove for a Move value.
func (b *Board) Apply(m Move) MoveRecord { return b.MakeMove(m.From, m.To) }

// Revert is UndoMove for a Move value.
func (b *Board) Revert(m Move, rec MoveRecord) { b.UndoMove(m.From, m.To, rec) }

// EvaluateMaterial sums own piece values minus opponent piece values.
func (b *Board) EvaluateMaterial(side Side) int {
	score := 0
	for _, pc := range b.cells {
		if pc.IsZero() {
			continue
		}
		if pc.Side == side {
			score += pc.Value()
		} else {
			score -= pc.Value()
		}
	}
	return score
}

// PieceCount counts every piece of both sides.
func (b *Board) PieceCount() int {
	n := 0
	for _, pc := range b.cells {
		if !pc.IsZero() {
			n++
		}
	}
	return n
}

// Pieces returns the squares occupied by side in row-major order.
func (b *Board) Pieces(side Side) []Square {
	var out []Square
	for idx, pc := range b.cells {
		if !pc.IsZero() && pc.Side == side {
			out = append(out, Sq(idx/b.width, idx%b.width))
		}
	}
	return out
}

func (b *Board) onlyKings() bool {
	for _, pc := range b.cells {
		if !pc.IsZero() && pc.Kind != King {
			return false
		}
	}
	return true
}

func (b *Board) Clone() *Board {
	clone := &Board{width: b.width, height: b.height}
	clone.cells = make([]Piece, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Equal reports whether both boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the diagram rows accepted by ParseBoard.
func (b *Board) Rows() []string {
	rows := make([]string, b.height)
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		sb.Reset()
		for col := 0; col < b.width; col++ {
			sb.WriteString(b.At(Sq(row, col)).Symbol())
		}
		rows[row] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

// Pretty renders the board with Unicode glyphs and file/rank labels.
func (b *Board) Pretty() string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		sb.WriteString(b.rankLabel(row))
		sb.WriteByte(' ')
		for col := 0; col < b.width; col++ {
			sb.WriteString(b.At(Sq(row, col)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	for col := 0; col < b.width; col++ {
		sb.WriteString(fileLabel(col))
		sb.WriteByte(' ')
	}
	return sb.String()
}
