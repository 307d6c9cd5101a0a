package minichess

import "fmt"

// Game is one round between a human side and the computer. It is not safe
// for concurrent use.
type Game struct {
	board      *Board
	start      *Board
	turn       Side
	first      Side
	human      Side
	difficulty Difficulty
	history    []Move
	searchOpts []SearchOption
}

type GameOption func(*Game)

func WithDifficulty(d Difficulty) GameOption {
	return func(g *Game) {
		g.difficulty = d
	}
}

// WithHumanSide selects the side the human plays; the computer takes the other.
func WithHumanSide(side Side) GameOption {
	return func(g *Game) {
		g.human = side
	}
}

// WithBoard starts the round from a copy of b instead of the standard setup.
func WithBoard(b *Board) GameOption {
	return func(g *Game) {
		g.board = b.Clone()
	}
}

// WithStartingSide sets the side to move first. White moves first by default.
func WithStartingSide(side Side) GameOption {
	return func(g *Game) {
		g.turn = side
	}
}

// WithSearchOptions forwards options to every computer search of the round.
func WithSearchOptions(opts ...SearchOption) GameOption {
	return func(g *Game) {
		g.searchOpts = append(g.searchOpts, opts...)
	}
}

// NewGame sets up a round. Without options the human plays White on the
// standard 5x6 board at HARD difficulty.
func NewGame(opts ...GameOption) (*Game, error) {
	g := &Game{
		turn:       White,
		human:      White,
		difficulty: Hard,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.board == nil {
		b, err := NewStandardBoard(DefaultWidth, DefaultHeight)
		if err != nil {
			return nil, err
		}
		g.board = b
	}
	g.start = g.board.Clone()
	g.first = g.turn
	return g, nil
}

func (g *Game) Turn() Side             { return g.turn }
func (g *Game) HumanSide() Side        { return g.human }
func (g *Game) AISide() Side           { return g.human.Opponent() }
func (g *Game) Difficulty() Difficulty { return g.difficulty }

// StartingSide is the side that moved first from StartBoard.
func (g *Game) StartingSide() Side { return g.first }

// Board returns a copy of the current position.
func (g *Game) Board() *Board { return g.board.Clone() }

// StartBoard returns a copy of the position the round started from.
func (g *Game) StartBoard() *Board { return g.start.Clone() }

// History returns the moves played so far.
func (g *Game) History() []Move {
	out := make([]Move, len(g.history))
	copy(out, g.history)
	return out
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1], true
}

func (g *Game) Outcome() Outcome { return GameOutcome(g.board, g.turn) }

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool { return InCheck(g.board, g.turn) }

// Winner reports the mating side once the game ended in checkmate.
func (g *Game) Winner() (Side, bool) {
	if g.Outcome() != Checkmate {
		return White, false
	}
	return g.turn.Opponent(), true
}

// LegalMoves returns the legal destinations of the piece on sq.
func (g *Game) LegalMoves(sq Square) []Square {
	return LegalMoves(g.board, sq.Row, sq.Col)
}

// Play commits a human move.
func (g *Game) Play(m Move) error {
	if g.Outcome().Over() {
		return ErrGameOver
	}
	if g.turn != g.human {
		return ErrNotYourTurn
	}
	pc, ok := g.board.GetPiece(m.From.Row, m.From.Col)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPiece, g.board.SquareName(m.From))
	}
	if pc.Side != g.human {
		return fmt.Errorf("%w: %s holds a %s piece", ErrNotYourTurn, g.board.SquareName(m.From), pc.Side)
	}
	if !IsLegal(g.board, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, g.board.MoveString(m))
	}
	g.commit(m)
	return nil
}

// PlayAI searches and commits the computer's move.
func (g *Game) PlayAI() (Move, error) {
	if g.Outcome().Over() {
		return Move{}, ErrGameOver
	}
	if g.turn == g.human {
		return Move{}, ErrNotYourTurn
	}
	m, ok := ChooseMove(g.board, g.turn, g.difficulty, g.searchOpts...)
	if !ok {
		return Move{}, ErrNoMove
	}
	g.commit(m)
	return m, nil
}

// ApplyAI commits a computer move that was searched elsewhere, typically on
// a copy of Board while the game was unlocked.
func (g *Game) ApplyAI(m Move) error {
	if g.Outcome().Over() {
		return ErrGameOver
	}
	if g.turn == g.human {
		return ErrNotYourTurn
	}
	if pc := g.board.At(m.From); pc.IsZero() || pc.Side != g.turn {
		return fmt.Errorf("%w: %s", ErrNoPiece, g.board.SquareName(m.From))
	}
	if !IsLegal(g.board, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, g.board.MoveString(m))
	}
	g.commit(m)
	return nil
}

// SearchOptions returns the options the round passes to each search.
func (g *Game) SearchOptions() []SearchOption {
	return append([]SearchOption(nil), g.searchOpts...)
}

func (g *Game) commit(m Move) {
	g.board.Apply(m)
	g.history = append(g.history, m)
	g.turn = g.turn.Opponent()
}
