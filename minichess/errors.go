package minichess

import "errors"

var (
	ErrBoardSize         = errors.New("unsupported board size")
	ErrBadSquare         = errors.New("invalid square")
	ErrBadBoard          = errors.New("invalid board diagram")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrBadSide           = errors.New("invalid side")
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNoPiece           = errors.New("no piece at source square")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNoMove            = errors.New("no move available")
)
