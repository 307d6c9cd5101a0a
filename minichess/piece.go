package minichess

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// Side is one of the two players.
type Side uint8

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// ParseSide accepts "white"/"w" and "black"/"b" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("%w: %q", ErrBadSide, s)
	}
}

// Kind is a piece type. The zero value marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

var pieceValues = [...]int{
	NoKind: 0,
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   100,
}

// PieceValue returns the fixed material value of a kind.
func PieceValue(k Kind) int {
	if int(k) < len(pieceValues) {
		return pieceValues[k]
	}
	return 0
}

// Piece is a side and kind pair. The zero Piece is "no piece".
type Piece struct {
	Side Side `json:"side"`
	Kind Kind `json:"kind"`
}

// NoPiece is the empty square value.
var NoPiece = Piece{}

func NewPiece(side Side, kind Kind) Piece {
	return Piece{Side: side, Kind: kind}
}

// IsZero reports whether p is the empty value.
func (p Piece) IsZero() bool { return p.Kind == NoKind }

// Value returns the material value of the piece.
func (p Piece) Value() int { return PieceValue(p.Kind) }

func (p Piece) toChess() chess.Piece {
	color := chess.White
	if p.Side == Black {
		color = chess.Black
	}
	var pt chess.PieceType
	switch p.Kind {
	case Pawn:
		pt = chess.Pawn
	case Knight:
		pt = chess.Knight
	case Bishop:
		pt = chess.Bishop
	case Rook:
		pt = chess.Rook
	case Queen:
		pt = chess.Queen
	case King:
		pt = chess.King
	default:
		return chess.NoPiece
	}
	return chess.NewPiece(pt, color)
}

// Symbol returns the diagram letter: upper case for White, lower case for Black, '.' when empty.
func (p Piece) Symbol() string {
	if p.IsZero() {
		return "."
	}
	letter := p.toChess().Type().String()
	if p.Side == White {
		return strings.ToUpper(letter)
	}
	return strings.ToLower(letter)
}

// String returns the Unicode chess glyph of the piece.
func (p Piece) String() string {
	if p.IsZero() {
		return "·"
	}
	return p.toChess().String()
}

func pieceFromSymbol(r rune) (Piece, bool) {
	if r == '.' {
		return NoPiece, true
	}
	side := Black
	if r >= 'A' && r <= 'Z' {
		side = White
		r += 'a' - 'A'
	}
	var kind Kind
	switch r {
	case 'p':
		kind = Pawn
	case 'n':
		kind = Knight
	case 'b':
		kind = Bishop
	case 'r':
		kind = Rook
	case 'q':
		kind = Queen
	case 'k':
		kind = King
	default:
		return NoPiece, false
	}
	return Piece{Side: side, Kind: kind}, true
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
