package match

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Result is the final record of a finished match.
type Result struct {
	Room      string
	Winner    int
	Moves     int
	StartedAt time.Time
	EndedAt   time.Time
}

// Repository persists final match results to Postgres. Optional: the server
// runs without it when DATABASE_URL is unset.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts one finished match keyed by room and start time, so a
// room reused for a later match gets its own row.
func (r *Repository) SaveResult(ctx context.Context, res *Result) error {
	if r == nil || r.db == nil || res == nil {
		return nil
	}
	duration := res.EndedAt.Sub(res.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	q := `INSERT INTO checkers_games (
	    room, winner, moves, started_at, ended_at, duration_ms
	  ) VALUES ($1,$2,$3,$4,$5,$6)
	  ON CONFLICT (room, started_at) DO UPDATE SET
	    winner=EXCLUDED.winner,
	    moves=EXCLUDED.moves,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`
	_, err := r.db.ExecContext(ctx, q,
		res.Room, res.Winner, res.Moves, res.StartedAt, res.EndedAt, duration,
	)
	return err
}
