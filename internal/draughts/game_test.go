package draughts

import "testing"

func mustPosition(t *testing.T, turn int, pieces []Piece) *Game {
	t.Helper()
	g, err := NewPosition(turn, pieces)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	return g
}

func TestOpeningPosition(t *testing.T) {
	g := New()
	if g.WhoseTurn() != 1 {
		t.Fatalf("opening turn = %d, want 1", g.WhoseTurn())
	}
	if n := len(g.Pieces()); n != 24 {
		t.Fatalf("opening piece count = %d, want 24", n)
	}
	if n := len(g.PossibleMoves()); n != 7 {
		t.Fatalf("opening move count = %d, want 7", n)
	}
	if g.IsOver() {
		t.Fatal("opening position reported over")
	}
	if w := g.Winner(); w != 0 {
		t.Fatalf("opening winner = %d, want 0", w)
	}
}

func TestStepMoveAndTurnPass(t *testing.T) {
	g := New()
	if err := g.Move([2]int{9, 13}); err != nil {
		t.Fatalf("Move(9,13): %v", err)
	}
	if g.WhoseTurn() != 2 {
		t.Fatalf("turn after step = %d, want 2", g.WhoseTurn())
	}
	if n := len(g.PossibleMoves()); n != 7 {
		t.Fatalf("reply move count = %d, want 7", n)
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	g := New()
	for _, mv := range [][2]int{{9, 18}, {1, 5}, {22, 18}, {12, 8}} {
		if err := g.Move(mv); err != ErrIllegalMove {
			t.Fatalf("Move(%v) err = %v, want ErrIllegalMove", mv, err)
		}
	}
	if g.WhoseTurn() != 1 {
		t.Fatalf("turn changed after rejected moves: %d", g.WhoseTurn())
	}
}

func TestMandatoryCapture(t *testing.T) {
	g := mustPosition(t, 1, []Piece{
		{Player: 1, Position: 9},
		{Player: 1, Position: 1},
		{Player: 2, Position: 14},
		{Player: 2, Position: 22},
	})
	moves := g.PossibleMoves()
	if len(moves) != 1 || moves[0] != [2]int{9, 18} {
		t.Fatalf("moves = %v, want only the jump 9->18", moves)
	}
	if err := g.Move([2]int{1, 5}); err != ErrIllegalMove {
		t.Fatalf("step during forced capture err = %v, want ErrIllegalMove", err)
	}
}

func TestMultiJumpKeepsTurn(t *testing.T) {
	g := mustPosition(t, 1, []Piece{
		{Player: 1, Position: 9},
		{Player: 2, Position: 14},
		{Player: 2, Position: 22},
	})
	if err := g.Move([2]int{9, 18}); err != nil {
		t.Fatalf("first jump: %v", err)
	}
	if g.WhoseTurn() != 1 {
		t.Fatalf("turn passed mid jump sequence: %d", g.WhoseTurn())
	}
	moves := g.PossibleMoves()
	if len(moves) != 1 || moves[0] != [2]int{18, 25} {
		t.Fatalf("chained moves = %v, want only 18->25", moves)
	}
	if err := g.Move([2]int{18, 27}); err != ErrIllegalMove {
		t.Fatalf("off-chain move err = %v, want ErrIllegalMove", err)
	}
	if err := g.Move([2]int{18, 25}); err != nil {
		t.Fatalf("second jump: %v", err)
	}

	// Both opponent pieces are gone: player 2 is to move with nothing left.
	if !g.IsOver() {
		t.Fatal("game not over after clearing opponent")
	}
	if w := g.Winner(); w != 1 {
		t.Fatalf("winner = %d, want 1", w)
	}
}

func TestCaptureFlagsPiece(t *testing.T) {
	g := mustPosition(t, 1, []Piece{
		{Player: 1, Position: 9},
		{Player: 2, Position: 14},
		{Player: 2, Position: 30},
	})
	if err := g.Move([2]int{9, 18}); err != nil {
		t.Fatalf("jump: %v", err)
	}
	var captured int
	for _, pc := range g.Pieces() {
		if pc.Captured {
			captured++
			if pc.Position != 14 {
				t.Fatalf("captured piece at %d, want 14", pc.Position)
			}
		}
	}
	if captured != 1 {
		t.Fatalf("captured count = %d, want 1", captured)
	}
}

func TestCrowning(t *testing.T) {
	g := mustPosition(t, 1, []Piece{
		{Player: 1, Position: 26},
		{Player: 2, Position: 9},
	})
	if err := g.Move([2]int{26, 30}); err != nil {
		t.Fatalf("Move(26,30): %v", err)
	}
	for _, pc := range g.Pieces() {
		if pc.Position == 30 && !pc.King {
			t.Fatal("piece on back row not crowned")
		}
	}
	if g.WhoseTurn() != 2 {
		t.Fatalf("turn after crowning = %d, want 2", g.WhoseTurn())
	}
}

func TestKingMovesBackward(t *testing.T) {
	g := mustPosition(t, 1, []Piece{
		{Player: 1, Position: 18, King: true},
		{Player: 2, Position: 1},
	})
	if err := g.Move([2]int{18, 14}); err != nil {
		t.Fatalf("king backward step: %v", err)
	}
}

func TestNewPositionValidation(t *testing.T) {
	if _, err := NewPosition(3, nil); err == nil {
		t.Fatal("bad turn accepted")
	}
	if _, err := NewPosition(1, []Piece{{Player: 1, Position: 33}}); err == nil {
		t.Fatal("bad square accepted")
	}
}
