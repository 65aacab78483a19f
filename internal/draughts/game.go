// Package draughts is a self-contained American checkers engine: move
// enumeration, mandatory captures, multi-jumps, crowning, turn tracking and
// win detection on the standard 1..32 square numbering. The match core never
// reaches into this package directly; it consumes the engine through the
// rules.Engine adapter only.
package draughts

import (
	"errors"
	"fmt"
)

// Piece is one checker. Position is 1..32; captured pieces keep their last
// position but are skipped by all occupancy and move logic.
type Piece struct {
	Player   int
	Position int
	King     bool
	Captured bool
}

// Game holds full rule state for one match. Player 1 owns squares 1..12 and
// advances toward 32; player 2 owns 21..32 and advances toward 1. Player 1
// opens.
type Game struct {
	pieces []Piece
	turn   int

	// chain is the square of a piece mid multi-jump, 0 when none. While set,
	// only that piece's further captures are legal and the turn does not pass.
	chain int
}

// ErrIllegalMove is returned by Move for anything not in PossibleMoves.
var ErrIllegalMove = errors.New("draughts: illegal move")

// New returns a game in the standard starting position.
func New() *Game {
	g := &Game{turn: 1}
	for p := 1; p <= 12; p++ {
		g.pieces = append(g.pieces, Piece{Player: 1, Position: p})
	}
	for p := 21; p <= 32; p++ {
		g.pieces = append(g.pieces, Piece{Player: 2, Position: p})
	}
	return g
}

// NewPosition builds a game from an arbitrary setup. Used by tests and
// diagnostic tooling; no validation beyond square range.
func NewPosition(turn int, pieces []Piece) (*Game, error) {
	if turn != 1 && turn != 2 {
		return nil, fmt.Errorf("draughts: bad turn %d", turn)
	}
	for _, pc := range pieces {
		if pc.Position < 1 || pc.Position > 32 {
			return nil, fmt.Errorf("draughts: bad square %d", pc.Position)
		}
	}
	return &Game{turn: turn, pieces: append([]Piece(nil), pieces...)}, nil
}

// WhoseTurn reports the player to move.
func (g *Game) WhoseTurn() int { return g.turn }

// Pieces returns a copy of all pieces, captured ones included.
func (g *Game) Pieces() []Piece {
	return append([]Piece(nil), g.pieces...)
}

// PossibleMoves enumerates legal moves as [from, to] square pairs. Captures
// are mandatory: if any capture exists, only captures are returned. During a
// multi-jump only the chained piece's further captures are legal.
func (g *Game) PossibleMoves() [][2]int {
	occ := g.occupancy()

	if g.chain != 0 {
		if i := occ[g.chain]; i >= 0 {
			return g.captureMoves(&g.pieces[i], occ)
		}
		return nil
	}

	var captures, steps [][2]int
	for i := range g.pieces {
		pc := &g.pieces[i]
		if pc.Captured || pc.Player != g.turn {
			continue
		}
		captures = append(captures, g.captureMoves(pc, occ)...)
		if len(captures) == 0 {
			steps = append(steps, g.stepMoves(pc, occ)...)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return steps
}

// Move applies a [from, to] pair. Captured opponents are flagged, crowning is
// applied, and the turn passes unless the same piece can jump again.
func (g *Game) Move(mv [2]int) error {
	legal := false
	for _, m := range g.PossibleMoves() {
		if m == mv {
			legal = true
			break
		}
	}
	if !legal {
		return ErrIllegalMove
	}

	occ := g.occupancy()
	pc := &g.pieces[occ[mv[0]]]

	fr, fc := squareToGrid(mv[0])
	tr, tc := squareToGrid(mv[1])
	jumped := fr-tr == 2 || tr-fr == 2
	if jumped {
		mid := gridToSquare((fr+tr)/2, (fc+tc)/2)
		g.pieces[occ[mid]].Captured = true
	}
	pc.Position = mv[1]

	crowned := false
	if !pc.King && (pc.Player == 1 && tr == 7 || pc.Player == 2 && tr == 0) {
		pc.King = true
		crowned = true
	}

	// A jump sequence continues only while further captures exist and the
	// piece was not just crowned.
	g.chain = 0
	if jumped && !crowned {
		if len(g.captureMoves(pc, g.occupancy())) > 0 {
			g.chain = pc.Position
			return nil
		}
	}
	g.turn = opponent(g.turn)
	return nil
}

// IsOver reports whether the player to move has no legal move.
func (g *Game) IsOver() bool { return len(g.PossibleMoves()) == 0 }

// Winner returns the winning player, or 0 while the game is live.
func (g *Game) Winner() int {
	if !g.IsOver() {
		return 0
	}
	return opponent(g.turn)
}

// occupancy maps each occupied square to its index in g.pieces; absent
// squares report -1 through the helper below.
func (g *Game) occupancy() squareIndex {
	occ := squareIndex{}
	for i := range occ {
		occ[i] = -1
	}
	for i := range g.pieces {
		if !g.pieces[i].Captured {
			occ[g.pieces[i].Position] = i
		}
	}
	return occ
}

type squareIndex [33]int

func (s squareIndex) empty(sq int) bool { return s[sq] == -1 }

func (g *Game) stepMoves(pc *Piece, occ squareIndex) [][2]int {
	var out [][2]int
	r, c := squareToGrid(pc.Position)
	for _, d := range directions(pc) {
		nr, nc := r+d[0], c+d[1]
		if !inGrid(nr, nc) {
			continue
		}
		if sq := gridToSquare(nr, nc); occ.empty(sq) {
			out = append(out, [2]int{pc.Position, sq})
		}
	}
	return out
}

func (g *Game) captureMoves(pc *Piece, occ squareIndex) [][2]int {
	var out [][2]int
	r, c := squareToGrid(pc.Position)
	for _, d := range directions(pc) {
		mr, mc := r+d[0], c+d[1]
		lr, lc := r+2*d[0], c+2*d[1]
		if !inGrid(mr, mc) || !inGrid(lr, lc) {
			continue
		}
		mid := gridToSquare(mr, mc)
		land := gridToSquare(lr, lc)
		if !occ.empty(mid) && g.pieces[occ[mid]].Player == opponent(pc.Player) && occ.empty(land) {
			out = append(out, [2]int{pc.Position, land})
		}
	}
	return out
}

// directions lists grid deltas a piece may move along. Men move forward
// only; kings both ways.
func directions(pc *Piece) [][2]int {
	if pc.King {
		return [][2]int{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
	}
	if pc.Player == 1 {
		return [][2]int{{1, -1}, {1, 1}}
	}
	return [][2]int{{-1, -1}, {-1, 1}}
}

func opponent(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}

func inGrid(r, c int) bool { return r >= 0 && r < 8 && c >= 0 && c < 8 }

// squareToGrid maps 1..32 numbering onto the canonical grid (player 2 frame).
func squareToGrid(sq int) (r, c int) {
	r = (sq - 1) / 4
	c = (sq - (r*4 + 1)) * 2
	if r%2 == 0 {
		c++
	}
	return r, c
}

func gridToSquare(r, c int) int {
	base := r*4 + 1
	if r%2 == 0 {
		c--
	}
	return base + c/2
}
