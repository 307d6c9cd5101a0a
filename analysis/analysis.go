package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/walterschell/minichess/minichess"
)

// ErrNoMoves is returned when there is nothing to review.
var ErrNoMoves = errors.New("no moves to analyze")

type MoveClassification int

const (
	Neutral MoveClassification = iota
	Blunder
	Questionable
	Good
	Excellent
	Winning
)

func (c MoveClassification) String() string {
	return []string{"Neutral", "Blunder", "Questionable", "Good", "Excellent", "Winning"}[c]
}

type MoveAnalysis struct {
	Ply                          int
	MoveNumber                   int
	Side                         minichess.Side
	MoveText                     string
	Score                        float64
	ScoreDifference              float64
	WinningProbability           float64
	WinningProbabilityDifference float64
	Classification               MoveClassification
	IsBestMove                   bool
	BestMove                     string
	BestMoveScore                float64
}

func (m *MoveAnalysis) String() string {
	return fmt.Sprintf("Move %d (%s): %s (Score: %.2f, Best: %s %.2f, Classification: %s)",
		m.MoveNumber, m.Side, m.MoveText, m.Score, m.BestMove, m.BestMoveScore, m.Classification)
}

var classificationAnnotations = map[MoveClassification]string{
	Blunder:      "??",
	Questionable: "?",
	Neutral:      "",
	Good:         "!",
	Excellent:    "!!",
	Winning:      "+-",
}

type moveAnalysisJSON struct {
	Ply                          int     `json:"ply"`
	MoveNumber                   int     `json:"moveNumber"`
	Side                         string  `json:"side"`
	MoveText                     string  `json:"moveText"`
	Score                        float64 `json:"score"`
	ScoreDifference              float64 `json:"scoreDifference"`
	WinningProbability           float64 `json:"winningProbability"`
	WinningProbabilityDifference float64 `json:"winningProbabilityDifference"`
	Classification               string  `json:"classification"`
	ClassificationSymbol         string  `json:"classificationSymbol"`
	IsBestMove                   bool    `json:"isBestMove"`
	BestMove                     string  `json:"bestMove"`
	BestMoveScore                float64 `json:"bestMoveScore"`
}

func (m *MoveAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(moveAnalysisJSON{
		Ply:                          m.Ply,
		MoveNumber:                   m.MoveNumber,
		Side:                         m.Side.String(),
		MoveText:                     m.MoveText,
		Score:                        m.Score,
		ScoreDifference:              m.ScoreDifference,
		WinningProbability:           m.WinningProbability,
		WinningProbabilityDifference: m.WinningProbabilityDifference,
		Classification:               m.Classification.String(),
		ClassificationSymbol:         classificationAnnotations[m.Classification],
		IsBestMove:                   m.IsBestMove,
		BestMove:                     m.BestMove,
		BestMoveScore:                m.BestMoveScore,
	})
}

// classifyMove grades a move by how its winning probability compares with
// the best move's.
func classifyMove(winProb, bestWinProb float64) MoveClassification {
	winProbDiff := winProb - bestWinProb

	switch {
	case winProbDiff <= -0.2:
		return Blunder
	case winProbDiff <= -0.1:
		return Questionable
	case winProbDiff >= 0.1:
		// Only possible when the best-move search ran out of time.
		return Excellent
	case winProbDiff >= 0.05:
		return Good
	case winProb >= 0.95:
		return Winning
	default:
		return Neutral
	}
}

// calculateWinningProbability maps a material score to a probability with a
// logistic curve, one pawn per unit of slope. Mate scores saturate at 0 and 1.
func calculateWinningProbability(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(-score))
}

type AnalyzeGameOptions struct {
	Depth      int
	TimeBudget time.Duration
	FirstMover minichess.Side
}

var defaultAnalyzeGameOptions = AnalyzeGameOptions{
	Depth:      2,
	TimeBudget: minichess.DefaultTimeBudget,
	FirstMover: minichess.White,
}

type AnalyzeGameOption func(*AnalyzeGameOptions)

func WithDepth(depth int) AnalyzeGameOption {
	return func(opts *AnalyzeGameOptions) {
		opts.Depth = depth
	}
}

// WithTimeBudget bounds the best-move search of each reviewed position.
func WithTimeBudget(d time.Duration) AnalyzeGameOption {
	return func(opts *AnalyzeGameOptions) {
		opts.TimeBudget = d
	}
}

// WithFirstMover sets the side that played the first move of the history.
func WithFirstMover(side minichess.Side) AnalyzeGameOption {
	return func(opts *AnalyzeGameOptions) {
		opts.FirstMover = side
	}
}

// AnalyzeGameStreaming replays moves from start and reviews them one by one,
// sending results through a channel. start is not modified.
func AnalyzeGameStreaming(start *minichess.Board, moves []minichess.Move, opts ...AnalyzeGameOption) (<-chan *MoveAnalysis, <-chan error) {
	analysisOpts := defaultAnalyzeGameOptions
	for _, opt := range opts {
		opt(&analysisOpts)
	}

	results := make(chan *MoveAnalysis)
	errc := make(chan error, 1)

	if start == nil || len(moves) == 0 {
		errc <- ErrNoMoves
		close(results)
		close(errc)
		return results, errc
	}

	go func() {
		defer close(results)
		defer close(errc)

		engine := NewEngine(analysisOpts.Depth, analysisOpts.TimeBudget)
		board := start.Clone()
		side := analysisOpts.FirstMover
		log.Info("analyzing game", "moves", len(moves), "depth", analysisOpts.Depth)

		for i, move := range moves {
			moveText := board.MoveString(move)
			result, err := engine.AnalyzeMove(board, side, move)
			if err != nil {
				log.Error("error analyzing move", "error", err, "ply", i+1, "move", moveText)
				errc <- fmt.Errorf("ply %d (%s): %w", i+1, moveText, err)
				return
			}

			analysis := &MoveAnalysis{
				Ply:                          i + 1,
				MoveNumber:                   i/2 + 1,
				Side:                         side,
				MoveText:                     moveText,
				Score:                        result.Score,
				ScoreDifference:              result.BestMoveScore - result.Score,
				WinningProbability:           result.WinProb,
				WinningProbabilityDifference: result.WinProb - result.BestMoveWinProb,
				Classification:               classifyMove(result.WinProb, result.BestMoveWinProb),
				IsBestMove:                   result.BestMove == move,
				BestMove:                     board.MoveString(result.BestMove),
				BestMoveScore:                result.BestMoveScore,
			}

			board.Apply(move)
			side = side.Opponent()
			results <- analysis
		}
	}()

	return results, errc
}

func AnalyzeGame(start *minichess.Board, moves []minichess.Move, opts ...AnalyzeGameOption) ([]MoveAnalysis, error) {
	movesChan, errChan := AnalyzeGameStreaming(start, moves, opts...)

	results := make([]MoveAnalysis, 0, len(moves))
	for move := range movesChan {
		results = append(results, *move)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}

	log.Info("analysis complete", "moves", len(results))
	return results, nil
}
