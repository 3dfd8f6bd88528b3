package room

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewKeyDefaults(t *testing.T) {
	key := NewKey("", "")
	if key.GameID != DefaultGameID || key.RoomID != DefaultRoomID {
		t.Errorf("Expected defaults (%s, %s), got (%s, %s)",
			DefaultGameID, DefaultRoomID, key.GameID, key.RoomID)
	}

	key = NewKey("1", "lobby")
	if key.GameID != "1" || key.RoomID != "lobby" {
		t.Errorf("Explicit key components should be preserved, got %+v", key)
	}
}

func TestGetOrCreate(t *testing.T) {
	reg := NewRegistry(50)

	key := NewKey("1", "lobby")
	r1 := reg.GetOrCreate(key)
	if r1 == nil {
		t.Fatal("GetOrCreate returned nil")
	}

	r2 := reg.GetOrCreate(key)
	if r1 != r2 {
		t.Error("GetOrCreate should return the same room for the same key")
	}

	other := reg.GetOrCreate(NewKey("1", "arena"))
	if other == r1 {
		t.Error("Distinct keys must resolve to distinct rooms")
	}
}

func TestRoomKeyIsolation(t *testing.T) {
	reg := NewRegistry(50)

	lobby := reg.GetOrCreate(NewKey("1", "lobby"))
	arena := reg.GetOrCreate(NewKey("1", "arena"))

	lobbySender := newTestSender()
	lobby.Join(NewSession("p1", "Al", lobbySender))

	// Identical playerId in a different room never collides or relays.
	arenaSender := newTestSender()
	if err := arena.Join(NewSession("p1", "Al", arenaSender)); err != nil {
		t.Fatalf("Same playerId in a different room should join: %v", err)
	}

	arena.Join(NewSession("p2", "Bo", newTestSender()))

	// Lobby's Al saw only its own snapshot, nothing from the arena.
	lobbySender.next(t)
	if !lobbySender.empty() {
		t.Error("Messages leaked between room keys")
	}
}

func TestSweepEmpty(t *testing.T) {
	reg := NewRegistry(50)

	lobby := reg.GetOrCreate(NewKey("1", "lobby"))
	reg.GetOrCreate(NewKey("1", "empty-a"))
	reg.GetOrCreate(NewKey("1", "empty-b"))

	lobby.Join(NewSession("p1", "Al", newTestSender()))

	// The sweep removes all currently-empty rooms, not just one.
	if removed := reg.SweepEmpty(); removed != 2 {
		t.Errorf("Expected 2 rooms swept, got %d", removed)
	}

	if agg := reg.Snapshot(); agg.Rooms != 1 || agg.Players != 1 {
		t.Errorf("Expected 1 room / 1 player, got %+v", agg)
	}

	// Idempotent: a redundant sweep removes nothing.
	if removed := reg.SweepEmpty(); removed != 0 {
		t.Errorf("Redundant sweep removed %d rooms", removed)
	}

	lobby.Leave("p1")
	if removed := reg.SweepEmpty(); removed != 1 {
		t.Errorf("Expected vacated room swept, got %d", removed)
	}

	if agg := reg.Snapshot(); agg.Rooms != 0 || agg.Players != 0 {
		t.Errorf("Expected empty registry, got %+v", agg)
	}
}

func TestSweptRoomRejectsJoin(t *testing.T) {
	reg := NewRegistry(50)

	key := NewKey("1", "lobby")
	stale := reg.GetOrCreate(key)
	reg.SweepEmpty()

	// A join holding a stale room reference detects the closure and can
	// re-resolve the key.
	err := stale.Join(NewSession("p1", "Al", newTestSender()))
	if !errors.Is(err, ErrRoomClosed) {
		t.Errorf("Expected ErrRoomClosed, got %v", err)
	}

	fresh := reg.GetOrCreate(key)
	if fresh == stale {
		t.Fatal("Registry returned the swept room")
	}
	if err := fresh.Join(NewSession("p1", "Al", newTestSender())); err != nil {
		t.Errorf("Join on re-resolved room failed: %v", err)
	}
}

func TestSnapshotAggregates(t *testing.T) {
	reg := NewRegistry(50)

	for i := 0; i < 3; i++ {
		r := reg.GetOrCreate(NewKey("1", fmt.Sprintf("room-%d", i)))
		for j := 0; j <= i; j++ {
			r.Join(NewSession(fmt.Sprintf("p%d", j), "", newTestSender()))
		}
	}

	agg := reg.Snapshot()
	if agg.Rooms != 3 {
		t.Errorf("Expected 3 rooms, got %d", agg.Rooms)
	}
	if agg.Players != 6 {
		t.Errorf("Expected 6 players, got %d", agg.Players)
	}
}

func TestConcurrentGetOrCreate(t *testing.T) {
	reg := NewRegistry(50)
	key := NewKey("1", "lobby")

	rooms := make([]*Room, 64)
	var wg sync.WaitGroup
	for i := range rooms {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rooms[n] = reg.GetOrCreate(key)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(rooms); i++ {
		if rooms[i] != rooms[0] {
			t.Fatal("Concurrent GetOrCreate produced different rooms for one key")
		}
	}

	if agg := reg.Snapshot(); agg.Rooms != 1 {
		t.Errorf("Expected 1 room, got %d", agg.Rooms)
	}
}
