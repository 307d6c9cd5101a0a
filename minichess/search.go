package minichess

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

var log = slog.Default().With("package", "minichess")

// DefaultTimeBudget bounds one ChooseMove call. The clock is sampled between
// root moves only, so a single root subtree may overrun it.
const DefaultTimeBudget = 4 * time.Second

// Stats counts the work done by one search call.
type Stats struct {
	Nodes         int           `json:"nodes"`
	Cutoffs       int           `json:"cutoffs"`
	RootMoves     int           `json:"root_moves"`
	RootEvaluated int           `json:"root_evaluated"`
	TimedOut      bool          `json:"timed_out"`
	Elapsed       time.Duration `json:"elapsed"`
}

// SearchResult is the outcome of Search. Found is false when side had no
// legal move.
type SearchResult struct {
	Move  Move    `json:"move"`
	Found bool    `json:"found"`
	Score float64 `json:"score"`
	Depth int     `json:"depth"`
	Stats Stats   `json:"stats"`
}

type SearchOptions struct {
	TimeBudget time.Duration
	Deadline   time.Time
	Depth      int
	Clock      func() time.Time
	Rand       *rand.Rand
}

var defaultSearchOptions = SearchOptions{
	TimeBudget: DefaultTimeBudget,
	Clock:      time.Now,
}

type SearchOption func(*SearchOptions)

// WithTimeBudget sets the wall-clock budget measured from the start of the call.
func WithTimeBudget(d time.Duration) SearchOption {
	return func(opts *SearchOptions) {
		opts.TimeBudget = d
	}
}

// WithDeadline sets an absolute deadline; it wins over the time budget.
func WithDeadline(t time.Time) SearchOption {
	return func(opts *SearchOptions) {
		opts.Deadline = t
	}
}

// WithDepth fixes the search depth, bypassing the tier depth and endgame boost.
func WithDepth(depth int) SearchOption {
	return func(opts *SearchOptions) {
		opts.Depth = depth
	}
}

func WithClock(clock func() time.Time) SearchOption {
	return func(opts *SearchOptions) {
		opts.Clock = clock
	}
}

// WithRand sets the source used to shuffle ties on the lower tiers.
func WithRand(r *rand.Rand) SearchOption {
	return func(opts *SearchOptions) {
		opts.Rand = r
	}
}

// ChooseMove picks a move for side at the given difficulty. It reports false
// when side has no legal move. The board is searched in place and is left
// exactly as it was passed in.
func ChooseMove(b *Board, side Side, d Difficulty, opts ...SearchOption) (Move, bool) {
	res := Search(b, side, d, opts...)
	return res.Move, res.Found
}

// Search runs the root of the alpha-beta search and reports the chosen move
// with its score and the work done.
func Search(b *Board, side Side, d Difficulty, opts ...SearchOption) SearchResult {
	searchOpts := defaultSearchOptions
	for _, opt := range opts {
		opt(&searchOpts)
	}
	clock := searchOpts.Clock
	if clock == nil {
		clock = time.Now
	}

	start := clock()
	deadline := start.Add(searchOpts.TimeBudget)
	if !searchOpts.Deadline.IsZero() {
		deadline = searchOpts.Deadline
	}

	policy := d.Policy()
	depth := EffectiveDepth(b, d)
	if searchOpts.Depth > 0 {
		depth = searchOpts.Depth
	}

	result := SearchResult{Depth: depth}
	moves := LegalMovesFor(b, side)
	result.Stats.RootMoves = len(moves)
	if len(moves) == 0 {
		log.Debug("no legal moves", "side", side)
		return result
	}

	if policy.ShuffleTies {
		shuffle := rand.Shuffle
		if searchOpts.Rand != nil {
			shuffle = searchOpts.Rand.Shuffle
		}
		shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	}
	ordered := orderRootMoves(b, side, moves)

	opponent := side.Opponent()
	best := math.Inf(-1)
	for i, m := range ordered {
		// The first candidate always completes so a move is returned.
		if i > 0 && clock().After(deadline) {
			result.Stats.TimedOut = true
			break
		}
		rec := b.Apply(m)
		score := Minimax(b, depth-1, math.Inf(-1), math.Inf(1), false, side, opponent, &result.Stats)
		b.Revert(m, rec)
		result.Stats.RootEvaluated++

		if !result.Found || score > best {
			best = score
			result.Move = m
			result.Found = true
		}
		if score >= MateScore {
			break
		}
	}
	result.Score = best
	result.Stats.Elapsed = clock().Sub(start)

	log.Debug("search complete",
		"side", side,
		"difficulty", d,
		"depth", depth,
		"move", b.MoveString(result.Move),
		"score", result.Score,
		"nodes", result.Stats.Nodes,
		"cutoffs", result.Stats.Cutoffs,
		"evaluated", result.Stats.RootEvaluated,
		"root_moves", result.Stats.RootMoves,
		"timed_out", result.Stats.TimedOut,
		"elapsed", result.Stats.Elapsed,
	)
	return result
}

// orderRootMoves sorts root moves by a one-ply static evaluation, best first.
func orderRootMoves(b *Board, side Side, moves []Move) []Move {
	type scored struct {
		move  Move
		score float64
	}
	candidates := make([]scored, len(moves))
	for i, m := range moves {
		rec := b.Apply(m)
		candidates[i] = scored{move: m, score: Evaluate(b, side, side.Opponent())}
		b.Revert(m, rec)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	ordered := make([]Move, len(candidates))
	for i, c := range candidates {
		ordered[i] = c.move
	}
	return ordered
}

// Minimax scores the position for player with current to move, searching
// depth plies with alpha-beta pruning. Moves below the root are tried in
// generation order. stats may be nil.
func Minimax(b *Board, depth int, alpha, beta float64, maximizing bool, player, current Side, stats *Stats) float64 {
	if stats != nil {
		stats.Nodes++
	}
	outcome := GameOutcome(b, current)
	if depth <= 0 || outcome != Ongoing {
		return evaluateOutcome(b, player, outcome, current)
	}

	next := current.Opponent()
	moves := LegalMovesFor(b, current)

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			rec := b.Apply(m)
			score := Minimax(b, depth-1, alpha, beta, false, player, next, stats)
			b.Revert(m, rec)
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				if stats != nil {
					stats.Cutoffs++
				}
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		rec := b.Apply(m)
		score := Minimax(b, depth-1, alpha, beta, true, player, next, stats)
		b.Revert(m, rec)
		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			if stats != nil {
				stats.Cutoffs++
			}
			break
		}
	}
	return best
}
