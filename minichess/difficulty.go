package minichess

import (
	"fmt"
	"strings"
)

// Difficulty is a tier name chosen by the caller for each round.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// Difficulties lists the tiers from weakest to strongest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// EndgamePieceLimit is the piece count at or below which the search goes one
// ply deeper.
const EndgamePieceLimit = 11

// Policy is the search behaviour a tier maps to.
type Policy struct {
	Depth        int
	EndgameBoost int
	// ShuffleTies randomises the order of equally scored root moves.
	ShuffleTies bool
}

// ParseDifficulty accepts the tier names in any case. The empty string is HARD.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Policy resolves the tier. Unset or unrecognised values search like HARD.
func (d Difficulty) Policy() Policy {
	switch d {
	case Easy:
		return Policy{Depth: 2, EndgameBoost: 1, ShuffleTies: true}
	case Medium:
		return Policy{Depth: 3, EndgameBoost: 1, ShuffleTies: true}
	default:
		return Policy{Depth: 4, EndgameBoost: 1}
	}
}

func (d Difficulty) String() string {
	if d == "" {
		return string(Hard)
	}
	return string(d)
}

// EffectiveDepth is the nominal tier depth plus a single endgame increment
// when at most EndgamePieceLimit pieces remain.
func EffectiveDepth(b *Board, d Difficulty) int {
	p := d.Policy()
	depth := p.Depth
	if b.PieceCount() <= EndgamePieceLimit {
		depth += p.EndgameBoost
	}
	return depth
}
