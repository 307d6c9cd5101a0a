package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/walterschell/minichess/minichess"
)

var log = slog.Default().With("package", "analysis")

type Engine struct {
	depth  int
	budget time.Duration
}

type AnalysisResult struct {
	Score           float64
	WinProb         float64
	BestMove        minichess.Move
	BestMoveScore   float64
	BestMoveWinProb float64
	Nodes           int
}

// NewEngine returns an engine that searches depth plies per reviewed move.
func NewEngine(depth int, budget time.Duration) *Engine {
	return &Engine{depth: max(depth, 1), budget: budget}
}

// AnalyzeMove compares played against the best move side had on b. Both are
// scored from side's point of view at the same depth. b is left unchanged.
func (e *Engine) AnalyzeMove(b *minichess.Board, side minichess.Side, played minichess.Move) (*AnalysisResult, error) {
	if outcome := minichess.GameOutcome(b, side); outcome.Over() {
		return nil, fmt.Errorf("%w: %s", minichess.ErrGameOver, outcome)
	}
	if pc := b.At(played.From); pc.IsZero() || pc.Side != side {
		return nil, fmt.Errorf("%w: %s does not hold a %s piece", minichess.ErrNotYourTurn, b.SquareName(played.From), side)
	}
	if !minichess.IsLegal(b, played) {
		return nil, fmt.Errorf("%w: %s", minichess.ErrIllegalMove, b.MoveString(played))
	}

	best := minichess.Search(b, side, minichess.Hard,
		minichess.WithDepth(e.depth),
		minichess.WithTimeBudget(e.budget),
	)
	if !best.Found {
		return nil, minichess.ErrNoMove
	}

	result := &AnalysisResult{
		BestMove:      best.Move,
		BestMoveScore: best.Score,
		Nodes:         best.Stats.Nodes,
	}

	if best.Move == played {
		result.Score = best.Score
	} else {
		var stats minichess.Stats
		rec := b.Apply(played)
		result.Score = minichess.Minimax(b, e.depth-1, math.Inf(-1), math.Inf(1), false, side, side.Opponent(), &stats)
		b.Revert(played, rec)
		result.Nodes += stats.Nodes
	}

	result.WinProb = calculateWinningProbability(result.Score)
	result.BestMoveWinProb = calculateWinningProbability(result.BestMoveScore)
	log.Debug("move analyzed",
		"move", b.MoveString(played),
		"score", result.Score,
		"best", b.MoveString(result.BestMove),
		"best_score", result.BestMoveScore,
		"nodes", result.Nodes,
	)
	return result, nil
}
