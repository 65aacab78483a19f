package rules

import (
	"github.com/sense-checkers/server/internal/draughts"
)

// draughtsEngine adapts the draughts package to the Engine interface.
type draughtsEngine struct {
	game *draughts.Game
}

// NewGame returns an Engine over a standard-start draughts game. This is the
// Factory installed by the server binary.
func NewGame() Engine {
	return &draughtsEngine{game: draughts.New()}
}

// NewPosition returns an Engine over an arbitrary setup, for tests and
// diagnostic tooling.
func NewPosition(turn int, pieces []Piece) (Engine, error) {
	dp := make([]draughts.Piece, 0, len(pieces))
	for _, pc := range pieces {
		dp = append(dp, draughts.Piece{
			Player:   pc.Player,
			Position: pc.Position,
			King:     pc.King,
			Captured: pc.Captured,
		})
	}
	g, err := draughts.NewPosition(turn, dp)
	if err != nil {
		return nil, err
	}
	return &draughtsEngine{game: g}, nil
}

func (e *draughtsEngine) Turn() int { return e.game.WhoseTurn() }

func (e *draughtsEngine) LegalMoves() []Move {
	raw := e.game.PossibleMoves()
	moves := make([]Move, 0, len(raw))
	for _, mv := range raw {
		moves = append(moves, Move{From: mv[0], To: mv[1]})
	}
	return moves
}

func (e *draughtsEngine) ApplyMove(mv Move) bool {
	return e.game.Move([2]int{mv.From, mv.To}) == nil
}

func (e *draughtsEngine) IsOver() bool { return e.game.IsOver() }

func (e *draughtsEngine) Winner() int { return e.game.Winner() }

func (e *draughtsEngine) Pieces() []Piece {
	raw := e.game.Pieces()
	pieces := make([]Piece, 0, len(raw))
	for _, pc := range raw {
		pieces = append(pieces, Piece{
			Player:   pc.Player,
			Position: pc.Position,
			King:     pc.King,
			Captured: pc.Captured,
		})
	}
	return pieces
}
