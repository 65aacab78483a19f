package rules

import "math/rand"

// RandomTurn plays random legal moves until the turn passes to the other
// player, so a full multi-jump counts as one turn. Returns false when no move
// is possible or the engine rejects one. Test/diagnostic utility, not part of
// the match contract.
func RandomTurn(e Engine) bool {
	mover := e.Turn()
	for e.Turn() == mover {
		moves := e.LegalMoves()
		if len(moves) == 0 {
			return false
		}
		if !e.ApplyMove(moves[rand.Intn(len(moves))]) {
			return false
		}
	}
	return true
}
