package journal

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store, err := NewStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndEvents(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	evs := []Event{
		{Kind: EventPartyJoined, Room: "alpha", Player: 1},
		{Kind: EventMoveApplied, Room: "alpha", Player: 1, Detail: "make_move_from_board"},
		{Kind: EventBoardMismatch, Room: "alpha", Player: 2, Detail: `[{"row":4,"col":3}]`},
	}
	for _, ev := range evs {
		if err := store.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.Events(ctx, "alpha")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != len(evs) {
		t.Fatalf("event count = %d, want %d", len(got), len(evs))
	}
	for i, ev := range evs {
		if got[i].Kind != ev.Kind || got[i].Player != ev.Player || got[i].Detail != ev.Detail {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], ev)
		}
		if got[i].At.IsZero() {
			t.Fatalf("event %d has zero timestamp", i)
		}
	}
}

func TestRoomsIsolated(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, Event{Kind: EventPartyJoined, Room: "alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := store.Events(ctx, "beta")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("beta events = %v, want none", got)
	}
}

func TestAppendSetsTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	store, err := NewStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Append(context.Background(), Event{Kind: EventPartyJoined, Room: "alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ttl := mr.TTL("journal:room:alpha"); ttl != ttlJournal {
		t.Fatalf("ttl = %v, want %v", ttl, ttlJournal)
	}
}

func TestNilStoreAppendIsNoop(t *testing.T) {
	var store *Store
	if err := store.Append(context.Background(), Event{Kind: EventPartyLeft, Room: "alpha"}); err != nil {
		t.Fatalf("nil store Append: %v", err)
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := parseRedisURL("redis://:secret@localhost:6390/2")
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if opts.Addr != "localhost:6390" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("opts = %+v", opts)
	}
	if _, err := parseRedisURL("http://localhost"); err == nil {
		t.Fatal("bad scheme accepted")
	}
}
