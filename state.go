package main

import (
	"github.com/walterschell/minichess/minichess"
)

type squareView struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Glyph  string `json:"glyph"`
	Side   string `json:"side,omitempty"`
}

type moveView struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// gameState is what the page renders; it is rebuilt after every move.
type gameState struct {
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Rows       []string             `json:"rows"`
	Squares    [][]squareView       `json:"squares"`
	Turn       minichess.Side       `json:"turn"`
	HumanSide  minichess.Side       `json:"humanSide"`
	AISide     minichess.Side       `json:"aiSide"`
	Difficulty minichess.Difficulty `json:"difficulty"`
	Outcome    minichess.Outcome    `json:"outcome"`
	InCheck    bool                 `json:"inCheck"`
	Winner     string               `json:"winner,omitempty"`
	Thinking   bool                 `json:"thinking"`
	LastMove   *moveView            `json:"lastMove,omitempty"`
	History    []string             `json:"history"`
}

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func newMoveView(b *minichess.Board, m minichess.Move) *moveView {
	return &moveView{
		From: b.SquareName(m.From),
		To:   b.SquareName(m.To),
		Text: b.MoveString(m),
	}
}

func buildState(g *minichess.Game, thinking bool) gameState {
	b := g.Board()
	state := gameState{
		Width:      b.Width(),
		Height:     b.Height(),
		Rows:       b.Rows(),
		Squares:    make([][]squareView, b.Height()),
		Turn:       g.Turn(),
		HumanSide:  g.HumanSide(),
		AISide:     g.AISide(),
		Difficulty: g.Difficulty(),
		Outcome:    g.Outcome(),
		InCheck:    g.InCheck(),
		Thinking:   thinking,
		History:    []string{},
	}
	for row := range state.Squares {
		state.Squares[row] = make([]squareView, b.Width())
		for col := range state.Squares[row] {
			sq := minichess.Sq(row, col)
			pc := b.At(sq)
			view := squareView{
				Name:   b.SquareName(sq),
				Symbol: pc.Symbol(),
				Glyph:  pc.String(),
			}
			if !pc.IsZero() {
				view.Side = pc.Side.String()
			}
			state.Squares[row][col] = view
		}
	}
	if winner, ok := g.Winner(); ok {
		state.Winner = winner.String()
	}
	if last, ok := g.LastMove(); ok {
		state.LastMove = newMoveView(b, last)
	}
	for _, m := range g.History() {
		state.History = append(state.History, b.MoveString(m))
	}
	return state
}
