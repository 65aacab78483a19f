// Package match holds the per-room game sessions: move inference from board
// snapshots, reconciliation of physical boards against engine truth, and the
// registry that guarantees one shared session per room key.
package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sense-checkers/server/internal/board"
	"github.com/sense-checkers/server/internal/obslog"
	"github.com/sense-checkers/server/internal/rules"
)

// SlotNone is the player slot handed to any party beyond the first two.
const SlotNone = -1

var (
	// ErrNoMove means the two snapshots differ in fewer than one vacated plus
	// one filled square: either nothing moved, or a piece was added/removed
	// outside a legal move (a cheating indicator for the caller).
	ErrNoMove = errors.New("match: no move inferred from snapshots")

	// ErrAmbiguousDiff means more than one vacated or filled square was
	// found. The snapshot pair is invalid input; no move is guessed from it.
	ErrAmbiguousDiff = errors.New("match: ambiguous snapshot diff")
)

// Session is the shared state of one match: the rule engine plus the
// connected-party count. All engine access is serialized through mu; a
// command dispatch holds the lock for its full duration.
type Session struct {
	key string

	mu      sync.Mutex
	engine  rules.Engine
	parties int

	repo      *Repository
	startedAt time.Time
	moves     int
	saved     bool
}

func newSession(key string, engine rules.Engine, repo *Repository) *Session {
	return &Session{key: key, engine: engine, repo: repo, startedAt: time.Now()}
}

// Key returns the room key the session was created under.
func (s *Session) Key() string { return s.key }

// join assigns the next player slot by join order: 1, 2, then SlotNone.
// Called by the registry with its own lock held.
func (s *Session) join() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties++
	if s.parties <= 2 {
		return s.parties
	}
	return SlotNone
}

// leave decrements the party count and reports the remainder.
func (s *Session) leave() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties--
	return s.parties
}

// Turn reports the engine's current turn owner.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Turn()
}

// LegalMoves returns the engine's legal moves for the turn owner.
func (s *Session) LegalMoves() []rules.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.LegalMoves()
}

// Pieces returns the engine's authoritative piece list.
func (s *Session) Pieces() []rules.Piece {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Pieces()
}

// Outcome returns 0 while the game is live, else the winner.
func (s *Session) Outcome() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.IsOver() {
		return s.engine.Winner()
	}
	return 0
}

// MakeMove submits a notation move directly. Diagnostic/testing path.
func (s *Session) MakeMove(ctx context.Context, mv rules.Move) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.ApplyMove(mv) {
		return false
	}
	s.afterMove(ctx)
	return true
}

// MoveFromBoards infers the single move between two snapshots of a player's
// physical board and submits it. The sensing workflow captures the pair
// before captured pieces are cleared, so a valid pair has exactly one
// vacated and one filled square; anything else is reported, never guessed.
// A rejected move returns applied=false plus the destination square so the
// board can highlight it.
func (s *Session) MoveFromBoards(ctx context.Context, prev, curr board.Snapshot, player int) (bool, *board.Pos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vacated, filled := board.Diff(prev, curr)
	if len(vacated) > 1 || len(filled) > 1 {
		return false, nil, ErrAmbiguousDiff
	}
	if len(vacated) == 0 || len(filled) == 0 {
		return false, nil, ErrNoMove
	}

	mv := rules.Move{
		From: board.GridToNotation(vacated[0].Row, vacated[0].Col, player),
		To:   board.GridToNotation(filled[0].Row, filled[0].Col, player),
	}
	if !s.engine.ApplyMove(mv) {
		end := filled[0]
		return false, &end, nil
	}
	s.afterMove(ctx)
	return true, nil, nil
}

// RandomTurn plays one full turn of random legal moves. Self-play utility.
func (s *Session) RandomTurn(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !rules.RandomTurn(s.engine) {
		return false
	}
	s.afterMove(ctx)
	return true
}

// OpponentBoard renders the expected occupancy of player's opponent's
// non-captured pieces in player's own physical frame, so the board can be
// told where opponent pieces now belong.
func (s *Session) OpponentBoard(player int) board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap board.Snapshot
	if player != rules.Player1 && player != rules.Player2 {
		return snap
	}
	for _, pc := range s.engine.Pieces() {
		if pc.Captured || pc.Player != rules.Opponent(player) {
			continue
		}
		r, c := board.NotationToGrid(pc.Position, player)
		snap[r][c] = true
	}
	return snap
}

// ValidateBoard compares a player's physical board against engine truth and
// returns every mismatched grid square: pieces that should be present but
// are not, and occupied squares with no matching live piece. Empty result
// means the board matches exactly.
func (s *Session) ValidateBoard(b board.Snapshot, player int) []board.Pos {
	s.mu.Lock()
	defer s.mu.Unlock()

	mismatched := []board.Pos{}
	if player != rules.Player1 && player != rules.Player2 {
		return mismatched
	}

	seen := map[board.Pos]bool{}
	for _, pc := range s.engine.Pieces() {
		if pc.Captured || pc.Player != player {
			continue
		}
		r, c := board.NotationToGrid(pc.Position, player)
		seen[board.Pos{Row: r, Col: c}] = true
		if !b[r][c] {
			mismatched = append(mismatched, board.Pos{Row: r, Col: c})
		}
	}
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if b[r][c] && !seen[board.Pos{Row: r, Col: c}] {
				mismatched = append(mismatched, board.Pos{Row: r, Col: c})
			}
		}
	}
	return mismatched
}

// afterMove runs with mu held after any accepted engine move: bumps the move
// counter and persists the final result once the game ends.
func (s *Session) afterMove(ctx context.Context) {
	s.moves++
	if s.saved || !s.engine.IsOver() {
		return
	}
	s.saved = true
	winner := s.engine.Winner()
	obslog.L().Info("match_over",
		zap.String("room", s.key),
		zap.Int("winner", winner),
		zap.Int("moves", s.moves),
	)
	if s.repo == nil {
		return
	}
	res := &Result{
		Room:      s.key,
		Winner:    winner,
		Moves:     s.moves,
		StartedAt: s.startedAt,
		EndedAt:   time.Now(),
	}
	if err := s.repo.SaveResult(ctx, res); err != nil {
		obslog.L().Error("match_result_persist_error", zap.String("room", s.key), zap.Error(err))
	}
}
