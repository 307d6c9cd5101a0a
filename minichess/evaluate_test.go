package minichess

import (
	"math"
	"testing"
)

func TestEvaluateTerminal(t *testing.T) {
	mate := mustParse(t, backRankMate...)
	if got := Evaluate(mate, White, Black); got != MateScore {
		t.Errorf("mating side: want %v, got %v", MateScore, got)
	}
	if got := Evaluate(mate, Black, Black); got != -MateScore {
		t.Errorf("mated side: want %v, got %v", -MateScore, got)
	}

	for name, rows := range map[string][]string{"stalemate": queenStalemate, "bare kings": bareKings} {
		b := mustParse(t, rows...)
		for _, side := range []Side{White, Black} {
			if got := Evaluate(b, side, Black); got != DrawScore {
				t.Errorf("%s from %s: want %v, got %v", name, side, DrawScore, got)
			}
		}
	}
}

func TestEvaluateStartIsBalanced(t *testing.T) {
	b := mustStandard(t)
	if got := Evaluate(b, White, White); got != 0 {
		t.Errorf("expected 0 for the mirrored start position, got %v", got)
	}
}

func TestEvaluateMobilityOnlyWhenAhead(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		mobility bool
	}{
		{
			name:     "Far ahead",
			rows:     []string{"k....", ".....", ".....", ".....", ".....", "K.QR."},
			mobility: true,
		},
		{
			name:     "Slightly ahead",
			rows:     []string{"k....", "p....", ".....", ".....", ".....", "K..R."},
			mobility: true,
		},
		{
			name:     "Ahead by a minor piece",
			rows:     []string{"k....", ".....", ".....", ".....", ".....", "K.N.."},
			mobility: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.rows...)
			material := b.EvaluateMaterial(White)
			want := float64(material) +
				spaceWeight*float64(ControlledSquares(b, White)-ControlledSquares(b, Black))
			if tt.mobility {
				want += mobilityWeight * float64(len(LegalMovesFor(b, White))-len(LegalMovesFor(b, Black)))
			}
			got := Evaluate(b, White, White)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("want %v, got %v", want, got)
			}
			if got <= 0 {
				t.Errorf("expected a positive score for the side ahead, got %v", got)
			}
			if opp := Evaluate(b, Black, White); opp >= 0 {
				t.Errorf("expected a negative score for the side behind, got %v", opp)
			}
		})
	}
}
