// Package journal keeps a per-room trail of match events in Redis for
// operations and replay. The journal is advisory: authoritative game state
// lives in the session registry, and journal failures never block play.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlJournal = 24 * time.Hour

// Event kinds recorded per room.
const (
	EventPartyJoined   = "party_joined"
	EventPartyLeft     = "party_left"
	EventMoveApplied   = "move_applied"
	EventBoardMismatch = "board_mismatch"
)

// Event is one journal entry, stored as JSON in a per-room list.
type Event struct {
	Kind   string    `json:"kind"`
	Room   string    `json:"room"`
	Player int       `json:"player,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

type Store struct {
	rdb *redis.Client
}

// NewStore connects to REDIS_URL-style addresses (redis:// or rediss://).
func NewStore(redisURL string) (*Store, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) key(room string) string { return "journal:room:" + strings.TrimSpace(room) }

// Append records one event and refreshes the room's TTL.
func (s *Store) Append(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	raw, err := json.Marshal(&ev)
	if err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, s.key(ev.Room), raw).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, s.key(ev.Room), ttlJournal).Err()
}

// Events returns the full trail for a room, oldest first.
func (s *Store) Events(ctx context.Context, room string) ([]Event, error) {
	raw, err := s.rdb.LRange(ctx, s.key(room), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(raw))
	for _, r := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(r), &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
