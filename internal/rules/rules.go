// Package rules is the seam between the match core and the checkers rule
// engine. The core does no move validation of its own; everything it needs
// from the engine goes through the Engine interface defined here.
package rules

// Player identifies a side. PlayerNone covers "no winner yet" and the
// unassigned observer slot.
const (
	PlayerNone = 0
	Player1    = 1
	Player2    = 2
)

// Move is a start/end pair in 1..32 notation. Ephemeral; not retained after
// application.
type Move struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Piece is a read-only view of one engine-owned checker.
type Piece struct {
	Player   int
	Position int
	King     bool
	Captured bool
}

// Engine is the rule-engine contract the match core consumes: turn tracking,
// legal-move enumeration, move application, win detection and the
// authoritative piece list. ApplyMove reports rejection as false, never as a
// panic or error escaping this boundary.
type Engine interface {
	Turn() int
	LegalMoves() []Move
	ApplyMove(Move) bool
	IsOver() bool
	Winner() int
	Pieces() []Piece
}

// Factory builds a fresh engine for a new session.
type Factory func() Engine

// Opponent returns the other player.
func Opponent(player int) int {
	if player == Player1 {
		return Player2
	}
	return Player1
}
