package minichess

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestPinnedRookStaysOnFile(t *testing.T) {
	b := mustParse(t,
		"..r.k",
		".....",
		".....",
		".....",
		"..R..",
		"..K..",
	)
	got := LegalMoves(b, 4, 2)
	want := []Square{Sq(3, 2), Sq(2, 2), Sq(1, 2), Sq(0, 2)}
	if !slices.Equal(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if IsLegal(b, Move{From: Sq(4, 2), To: Sq(4, 0)}) {
		t.Errorf("expected a sideways rook move to be illegal")
	}
}

func TestKingCannotStepIntoAttack(t *testing.T) {
	b := mustParse(t,
		"k....",
		".....",
		".....",
		".....",
		"...r.",
		"K....",
	)
	got := LegalMoves(b, 5, 0)
	want := []Square{Sq(5, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestInCheck(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		side Side
		want bool
	}{
		{"Pawn attacks diagonally", []string{"....k", ".....", ".p...", "..K..", ".....", "....."}, White, true},
		{"Pawn does not attack ahead", []string{"....k", ".....", "..p..", "..K..", ".....", "....."}, White, false},
		{"Rook on the file", []string{"k...R", ".....", ".....", ".....", ".....", "K...."}, Black, true},
		{"Blocked rook", []string{"k.p.R", ".....", ".....", ".....", ".....", "K...."}, Black, false},
		{"Knight", []string{"k....", "..N..", ".....", ".....", ".....", "K...."}, Black, true},
		{"No king", []string{"....r", ".....", ".....", ".....", ".....", "Q...."}, White, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.rows...)
			if got := InCheck(b, tt.side); got != tt.want {
				t.Errorf("InCheck(%s): want %v, got %v", tt.side, tt.want, got)
			}
		})
	}
}

// checkLegalFilter verifies that the legal moves are exactly the pseudo-legal
// moves that keep the mover's king safe, and that filtering leaves b as it was.
func checkLegalFilter(t *testing.T, b *Board) {
	t.Helper()
	before := b.Clone()
	for _, side := range []Side{White, Black} {
		total := 0
		for _, from := range b.Pieces(side) {
			legal := LegalMoves(b, from.Row, from.Col)
			total += len(legal)
			for _, to := range b.PseudoLegalMoves(from.Row, from.Col) {
				probe := b.Clone()
				probe.Apply(Move{From: from, To: to})
				safe := !InCheck(probe, side)
				if slices.Contains(legal, to) != safe {
					t.Fatalf("%s: legal=%v but king safe=%v\n%s",
						b.MoveString(Move{From: from, To: to}), !safe, safe, b)
				}
			}
		}
		if HasLegalMove(b, side) != (total > 0) {
			t.Fatalf("HasLegalMove(%s) disagrees with %d legal moves\n%s", side, total, b)
		}
		if n := len(LegalMovesFor(b, side)); n != total {
			t.Fatalf("LegalMovesFor(%s): want %d moves, got %d", side, total, n)
		}
	}
	if !b.Equal(before) {
		t.Fatalf("legality checks changed the board:\n%s", b)
	}
}

func TestLegalMovesAlongRandomGames(t *testing.T) {
	for seed := uint64(1); seed <= 4; seed++ {
		rng := rand.New(rand.NewPCG(seed, 99))
		b := mustStandard(t)
		side := White
		for ply := 0; ply < 40; ply++ {
			checkLegalFilter(t, b)
			moves := LegalMovesFor(b, side)
			if len(moves) == 0 {
				t.Logf("seed %d: game ended after %d plies: %s", seed, ply, GameOutcome(b, side))
				break
			}
			b.Apply(moves[rng.IntN(len(moves))])
			side = side.Opponent()
		}
	}
}

func TestControlledSquares(t *testing.T) {
	b := mustStandard(t)
	// Pawns reach rows 2 and 3; the knights add nothing new.
	if got := ControlledSquares(b, White); got != 10 {
		t.Errorf("white controls %d squares, want 10", got)
	}
	if got := ControlledSquares(b, Black); got != 10 {
		t.Errorf("black controls %d squares, want 10", got)
	}
}
