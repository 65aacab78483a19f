package match

import (
	"context"
	"testing"

	"github.com/sense-checkers/server/internal/rules"
)

func TestRegistrySharedSession(t *testing.T) {
	reg := NewRegistry(rules.NewGame)

	s1, slot1 := reg.Join("alpha")
	s2, slot2 := reg.Join("alpha")
	s3, slot3 := reg.Join("alpha")

	if s1 != s2 || s2 != s3 {
		t.Fatal("joins under one key returned different sessions")
	}
	if slot1 != 1 || slot2 != 2 {
		t.Fatalf("slots = %d,%d, want 1,2", slot1, slot2)
	}
	if slot3 != SlotNone {
		t.Fatalf("third slot = %d, want %d", slot3, SlotNone)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}

	other, _ := reg.Join("beta")
	if other == s1 {
		t.Fatal("distinct keys share a session")
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
}

func TestRegistryReleaseDestroysOnLastLeave(t *testing.T) {
	reg := NewRegistry(rules.NewGame)

	reg.Join("alpha")
	reg.Join("alpha")

	reg.Release("alpha")
	if reg.Lookup("alpha") == nil {
		t.Fatal("session destroyed while a party remained")
	}
	reg.Release("alpha")
	if reg.Lookup("alpha") != nil {
		t.Fatal("session survived last leave")
	}

	// Releasing an unknown key is a no-op.
	reg.Release("alpha")
	reg.Release("never-joined")
}

func TestRegistryFreshGameAfterRelease(t *testing.T) {
	reg := NewRegistry(rules.NewGame)

	old, _ := reg.Join("alpha")
	if !old.MakeMove(context.Background(), rules.Move{From: 9, To: 13}) {
		t.Fatal("setup move rejected")
	}
	reg.Release("alpha")

	fresh, slot := reg.Join("alpha")
	if fresh == old {
		t.Fatal("rejoin reused the released session")
	}
	if slot != 1 {
		t.Fatalf("rejoin slot = %d, want 1", slot)
	}
	if fresh.Turn() != rules.Player1 {
		t.Fatalf("fresh session turn = %d, want %d", fresh.Turn(), rules.Player1)
	}
}

func TestRegistryLookupNeverCreates(t *testing.T) {
	reg := NewRegistry(rules.NewGame)
	if reg.Lookup("ghost") != nil {
		t.Fatal("Lookup returned a session for an unknown key")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d after Lookup, want 0", reg.Len())
	}
}
