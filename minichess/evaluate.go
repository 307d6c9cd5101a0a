package minichess

const (
	// MateScore is the sentinel returned for a checkmate.
	MateScore = 1000.0
	// DrawScore is returned for stalemate and insufficient material.
	DrawScore = 0.0

	mobilityThreshold = 3
	mobilityWeight    = 0.1
	spaceWeight       = 0.2 * 0.1

	// Positional noise must never reach the mate sentinels.
	maxStaticScore = MateScore - 1
)

// Evaluate scores the position from perspective's point of view with toMove
// to play. Checkmate and draws override material; otherwise material is
// adjusted by a mobility bonus when well ahead and by a space-control term.
func Evaluate(b *Board, perspective, toMove Side) float64 {
	return evaluateOutcome(b, perspective, GameOutcome(b, toMove), toMove)
}

func evaluateOutcome(b *Board, perspective Side, outcome Outcome, toMove Side) float64 {
	switch outcome {
	case Checkmate:
		// toMove is the mated side.
		if toMove.Opponent() == perspective {
			return MateScore
		}
		return -MateScore
	case Stalemate, InsufficientMaterial:
		return DrawScore
	}

	material := b.EvaluateMaterial(perspective)
	score := float64(material)
	opponent := perspective.Opponent()

	if material > mobilityThreshold {
		own := len(LegalMovesFor(b, perspective))
		theirs := len(LegalMovesFor(b, opponent))
		score += float64(own-theirs) * mobilityWeight
	}

	score += spaceWeight * float64(ControlledSquares(b, perspective)-ControlledSquares(b, opponent))

	switch {
	case score > maxStaticScore:
		return maxStaticScore
	case score < -maxStaticScore:
		return -maxStaticScore
	}
	return score
}
