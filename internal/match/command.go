package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sense-checkers/server/internal/board"
	"github.com/sense-checkers/server/internal/rules"
)

// Command names accepted from the transport layer.
const (
	CmdWhoseTurn           = "whose_turn"
	CmdMoves               = "moves"
	CmdMakeMoveFromBoard   = "make_move_from_board"
	CmdAddOpponentPieces   = "add_opponent_pieces"
	CmdValidatePlayerBoard = "validate_player_board"
	CmdRandomPlayerMove    = "random_player_move"
	CmdIsOver              = "is_over"
	CmdPlayerNum           = "player_num"
	CmdMakeMove            = "make_move"
	CmdEcho                = "echo"
)

// Dispatch executes one transport command against the session and returns
// the ordered result list. The returned error covers malformed input and the
// snapshot-diff taxonomy (ErrNoMove, ErrAmbiguousDiff); it never means the
// session is broken, and the result list is still valid alongside it.
func (s *Session) Dispatch(ctx context.Context, cmd string, args []json.RawMessage, slot int) ([]any, error) {
	switch cmd {
	case CmdWhoseTurn:
		return []any{s.Turn()}, nil

	case CmdMoves:
		return []any{s.LegalMoves()}, nil

	case CmdMakeMoveFromBoard:
		var prev, curr board.Snapshot
		if err := decodeArgs(args, &prev, &curr); err != nil {
			return nil, err
		}
		applied, errSquare, err := s.MoveFromBoards(ctx, prev, curr, slot)
		squares := []board.Pos{}
		if errSquare != nil {
			squares = append(squares, *errSquare)
		}
		return []any{applied, squares}, err

	case CmdAddOpponentPieces:
		return []any{s.OpponentBoard(slot)}, nil

	case CmdValidatePlayerBoard:
		var b board.Snapshot
		if err := decodeArgs(args, &b); err != nil {
			return nil, err
		}
		return []any{s.ValidateBoard(b, slot)}, nil

	case CmdRandomPlayerMove:
		return []any{s.RandomTurn(ctx)}, nil

	case CmdIsOver:
		return []any{s.Outcome()}, nil

	case CmdPlayerNum:
		return []any{slot}, nil

	case CmdMakeMove:
		var mv [2]int
		if err := decodeArgs(args, &mv); err != nil {
			return nil, err
		}
		return []any{s.MakeMove(ctx, rules.Move{From: mv[0], To: mv[1]})}, nil

	case CmdEcho:
		var text string
		if err := decodeArgs(args, &text); err != nil {
			return nil, err
		}
		return []any{fmt.Sprintf("echoing: %s", text)}, nil
	}
	return nil, fmt.Errorf("match: unknown command %q", cmd)
}

// decodeArgs unmarshals the leading arguments into the given targets.
func decodeArgs(args []json.RawMessage, targets ...any) error {
	if len(args) < len(targets) {
		return fmt.Errorf("match: want %d arguments, got %d", len(targets), len(args))
	}
	for i, t := range targets {
		if err := json.Unmarshal(args[i], t); err != nil {
			return fmt.Errorf("match: bad argument %d: %w", i, err)
		}
	}
	return nil
}
