package minichess

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, rows ...string) *Board {
	t.Helper()
	b, err := ParseBoard(rows...)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func mustStandard(t *testing.T) *Board {
	t.Helper()
	b, err := NewStandardBoard(DefaultWidth, DefaultHeight)
	if err != nil {
		t.Fatalf("standard board: %v", err)
	}
	return b
}

func TestStandardBoardLayout(t *testing.T) {
	b := mustStandard(t)
	want := []string{"rnbqk", "ppppp", ".....", ".....", "PPPPP", "RNBQK"}
	got := b.Rows()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: want %q, got %q", i, want[i], got[i])
		}
	}
	if n := b.PieceCount(); n != 20 {
		t.Errorf("expected 20 pieces, got %d", n)
	}
	if m := b.EvaluateMaterial(White); m != 0 {
		t.Errorf("expected balanced material, got %d", m)
	}
}

func TestBoardSizeLimits(t *testing.T) {
	for _, size := range [][2]int{{0, 6}, {5, 0}, {9, 6}, {5, 9}} {
		if _, err := NewBoard(size[0], size[1]); !errors.Is(err, ErrBoardSize) {
			t.Errorf("NewBoard(%d, %d): expected ErrBoardSize, got %v", size[0], size[1], err)
		}
	}
	if _, err := NewStandardBoard(4, 6); !errors.Is(err, ErrBoardSize) {
		t.Errorf("expected a 4-wide standard board to be rejected, got %v", err)
	}
	b, err := NewStandardBoard(8, 8)
	if err != nil {
		t.Fatalf("8x8 standard board: %v", err)
	}
	if got := b.Rows()[7]; got != "RNBQKBNR" {
		t.Errorf("unexpected 8x8 back rank %q", got)
	}
}

func TestGetPieceOutOfBounds(t *testing.T) {
	b := mustStandard(t)
	for _, sq := range []Square{{-1, 0}, {0, -1}, {6, 0}, {0, 5}, {100, 100}} {
		if pc, ok := b.GetPiece(sq.Row, sq.Col); ok || !pc.IsZero() {
			t.Errorf("GetPiece(%d, %d): expected empty, got %v %v", sq.Row, sq.Col, pc, ok)
		}
	}
	if _, ok := b.GetPiece(2, 2); ok {
		t.Errorf("expected (2,2) to be empty")
	}
	pc, ok := b.GetPiece(5, 4)
	if !ok || pc != NewPiece(White, King) {
		t.Errorf("expected white king on (5,4), got %v %v", pc, ok)
	}
}

func TestPieceValues(t *testing.T) {
	want := map[Kind]int{Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 100}
	for kind, value := range want {
		if got := PieceValue(kind); got != value {
			t.Errorf("%s: want %d, got %d", kind, value, got)
		}
	}
}

func TestEvaluateMaterial(t *testing.T) {
	b := mustParse(t,
		"k....",
		".....",
		"..q..",
		".....",
		"R.P..",
		"K....",
	)
	// White: king, rook, pawn. Black: king, queen.
	if got := b.EvaluateMaterial(White); got != -3 {
		t.Errorf("white material: want -3, got %d", got)
	}
	if got := b.EvaluateMaterial(Black); got != 3 {
		t.Errorf("black material: want 3, got %d", got)
	}
}

func TestMakeUndoRestoresEveryMove(t *testing.T) {
	positions := map[string]*Board{
		"standard": mustStandard(t),
		"middlegame": mustParse(t,
			"r.bqk",
			"p.p.p",
			".pn..",
			"..P.P",
			"PP.N.",
			"R.BQK",
		),
	}
	for name, b := range positions {
		t.Run(name, func(t *testing.T) {
			for _, side := range []Side{White, Black} {
				for _, from := range b.Pieces(side) {
					for _, to := range b.PseudoLegalMoves(from.Row, from.Col) {
						before := b.Clone()
						rec := b.MakeMove(from, to)
						b.UndoMove(from, to, rec)
						if !b.Equal(before) {
							t.Fatalf("%s: board not restored\nbefore:\n%s\nafter:\n%s", b.MoveString(Move{from, to}), before, b)
						}
					}
				}
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		move     Move
		promoted Piece
		captured Piece
	}{
		{
			name:     "White push",
			rows:     []string{"....k", "P....", ".....", ".....", ".....", "K...."},
			move:     Move{From: Sq(1, 0), To: Sq(0, 0)},
			promoted: NewPiece(White, Queen),
		},
		{
			name:     "White capture",
			rows:     []string{".r..k", "P....", ".....", ".....", ".....", "K...."},
			move:     Move{From: Sq(1, 0), To: Sq(0, 1)},
			promoted: NewPiece(White, Queen),
			captured: NewPiece(Black, Rook),
		},
		{
			name:     "Black push",
			rows:     []string{"....k", ".....", ".....", ".....", "..p..", "K...."},
			move:     Move{From: Sq(4, 2), To: Sq(5, 2)},
			promoted: NewPiece(Black, Queen),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.rows...)
			before := b.Clone()
			pawn := b.At(tt.move.From)

			rec := b.Apply(tt.move)
			if !rec.Promoted {
				t.Fatalf("expected a promotion record")
			}
			if rec.Captured != tt.captured {
				t.Errorf("captured: want %v, got %v", tt.captured, rec.Captured)
			}
			if got := b.At(tt.move.To); got != tt.promoted {
				t.Fatalf("expected %v on the last rank, got %v", tt.promoted, got)
			}

			b.Revert(tt.move, rec)
			if got := b.At(tt.move.From); got != pawn {
				t.Errorf("expected the pawn back, got %v", got)
			}
			if !b.Equal(before) {
				t.Errorf("board not restored:\n%s", b)
			}
		})
	}
}

func TestParseBoardErrors(t *testing.T) {
	cases := map[string][]string{
		"empty":   nil,
		"ragged":  {"k....", "...", "....K"},
		"unknown": {"k...x", ".....", "....K"},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBoard(rows...); !errors.Is(err, ErrBadBoard) {
				t.Errorf("expected ErrBadBoard, got %v", err)
			}
		})
	}
}

func TestBoardStringRoundTrip(t *testing.T) {
	b := mustStandard(t)
	parsed := mustParse(t, b.Rows()...)
	if !parsed.Equal(b) {
		t.Fatalf("round trip changed the board:\n%s", parsed)
	}
	t.Logf("\n%s", b.Pretty())
}

func TestSquareNames(t *testing.T) {
	b := mustStandard(t)
	tests := []struct {
		sq   Square
		name string
	}{
		{Sq(5, 0), "a1"},
		{Sq(0, 0), "a6"},
		{Sq(0, 4), "e6"},
		{Sq(4, 2), "c2"},
	}
	for _, tt := range tests {
		if got := b.SquareName(tt.sq); got != tt.name {
			t.Errorf("SquareName(%v): want %s, got %s", tt.sq, tt.name, got)
		}
		sq, err := b.ParseSquare(tt.name)
		if err != nil {
			t.Errorf("ParseSquare(%s): %v", tt.name, err)
			continue
		}
		if sq != tt.sq {
			t.Errorf("ParseSquare(%s): want %v, got %v", tt.name, tt.sq, sq)
		}
	}
	for _, bad := range []string{"f1", "a7", "a0", "", "a", "zz"} {
		if _, err := b.ParseSquare(bad); !errors.Is(err, ErrBadSquare) {
			t.Errorf("ParseSquare(%q): expected ErrBadSquare, got %v", bad, err)
		}
	}

	m, err := b.ParseMove("a2a4")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m != (Move{From: Sq(4, 0), To: Sq(2, 0)}) {
		t.Errorf("unexpected move %+v", m)
	}
	if s := b.MoveString(m); s != "a2a4" {
		t.Errorf("MoveString: want a2a4, got %s", s)
	}
}
