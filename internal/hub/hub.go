// Package hub is the websocket transport in front of the session registry.
// Each physical board (or observer) connects to /ws?room=<key>, gets a
// player slot by join order, and exchanges command envelopes until it
// disconnects.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/sense-checkers/server/internal/config"
	"github.com/sense-checkers/server/internal/journal"
	"github.com/sense-checkers/server/internal/match"
	"github.com/sense-checkers/server/internal/obslog"
)

const pingInterval = 30 * time.Second

// Request is one command envelope from a board client.
type Request struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments"`
}

// Response carries the ordered result list back. Error is set for malformed
// input and for the snapshot-diff cases (no move inferred, ambiguous diff);
// the results are still valid alongside it.
type Response struct {
	Command string `json:"command"`
	Results []any  `json:"results"`
	Error   string `json:"error,omitempty"`
}

type Hub struct {
	registry *match.Registry
	cfg      *config.AppConfig
	journal  *journal.Store // nil when Redis is not configured
}

func NewHub(registry *match.Registry, cfg *config.AppConfig, jr *journal.Store) *Hub {
	return &Hub{registry: registry, cfg: cfg, journal: jr}
}

// ServeWS upgrades the connection, joins the room's session, and serves
// command envelopes until the client goes away. Leaving always releases the
// party's seat so the session can be torn down on last leave.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	room := strings.TrimSpace(r.URL.Query().Get("room"))
	if room == "" {
		http.Error(w, "room query parameter required", http.StatusBadRequest)
		return
	}
	if !h.cfg.RoomAllowed(room) {
		http.Error(w, "room not allowed", http.StatusForbidden)
		return
	}
	if h.registry.Lookup(room) == nil && h.registry.Len() >= h.cfg.MaxSessions {
		http.Error(w, "session limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx := r.Context()
	connID := uuid.NewString()
	sess, slot := h.registry.Join(room)
	defer func() {
		h.registry.Release(room)
		h.record(journal.Event{Kind: journal.EventPartyLeft, Room: room, Player: slot})
		obslog.L().Info("party_leave", zap.String("room", room), zap.String("conn", connID), zap.Int("slot", slot))
	}()

	obslog.L().Info("party_join", zap.String("room", room), zap.String("conn", connID), zap.Int("slot", slot))
	h.record(journal.Event{Kind: journal.EventPartyJoined, Room: room, Player: slot})

	go pingLoop(ctx, conn)

	for {
		var req Request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}

		results, dErr := sess.Dispatch(ctx, req.Command, req.Arguments, slot)
		resp := Response{Command: req.Command, Results: results}
		if dErr != nil {
			resp.Error = dErr.Error()
			if resp.Results == nil {
				resp.Results = []any{}
			}
			obslog.L().Warn("command_error",
				zap.String("room", room),
				zap.String("conn", connID),
				zap.String("command", req.Command),
				zap.Error(dErr),
			)
		}
		h.journalCommand(room, slot, req.Command, results, dErr)

		if err := wsjson.Write(ctx, conn, &resp); err != nil {
			return
		}
	}
}

// journalCommand records the journal-worthy outcomes of a dispatch.
func (h *Hub) journalCommand(room string, slot int, cmd string, results []any, dErr error) {
	switch cmd {
	case match.CmdMakeMoveFromBoard, match.CmdMakeMove, match.CmdRandomPlayerMove:
		if dErr == nil && len(results) > 0 {
			if applied, ok := results[0].(bool); ok && applied {
				h.record(journal.Event{Kind: journal.EventMoveApplied, Room: room, Player: slot, Detail: cmd})
			}
		}
	case match.CmdValidatePlayerBoard:
		if dErr == nil && len(results) > 0 {
			if raw, err := json.Marshal(results[0]); err == nil && string(raw) != "[]" {
				h.record(journal.Event{Kind: journal.EventBoardMismatch, Room: room, Player: slot, Detail: string(raw)})
			}
		}
	}
}

func (h *Hub) record(ev journal.Event) {
	if h.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.journal.Append(ctx, ev); err != nil {
		obslog.L().Warn("journal_append_error", zap.String("room", ev.Room), zap.Error(err))
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
