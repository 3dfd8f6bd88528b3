package room

import (
	"sync"

	"github.com/relaywire/roomrelay/relay/metrics"
)

// Defaults applied when a connection omits a routing parameter.
const (
	DefaultGameID = "unknown"
	DefaultRoomID = "default"
)

// Key is the composite (gameId, roomId) identifier of a room. It is
// opaque: the registry only ever compares keys for equality.
type Key struct {
	GameID string
	RoomID string
}

// NewKey builds a Key, substituting defaults for empty components.
func NewKey(gameID, roomID string) Key {
	if gameID == "" {
		gameID = DefaultGameID
	}
	if roomID == "" {
		roomID = DefaultRoomID
	}
	return Key{GameID: gameID, RoomID: roomID}
}

// Aggregate is a momentarily-consistent summary of the registry, used by
// the status endpoint.
type Aggregate struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
}

// Registry is the process-wide mapping from Key to Room. Entries are
// created lazily on first reference and removed by SweepEmpty. It is the
// single source of truth for which rooms exist.
type Registry struct {
	maxPlayers int

	mu    sync.RWMutex
	rooms map[Key]*Room
}

// NewRegistry creates an empty registry whose rooms admit at most
// maxPlayers members each.
func NewRegistry(maxPlayers int) *Registry {
	return &Registry{
		maxPlayers: maxPlayers,
		rooms:      make(map[Key]*Room),
	}
}

// GetOrCreate returns the room registered under key, creating an empty one
// if none exists. It never fails.
func (reg *Registry) GetOrCreate(key Key) *Room {
	reg.mu.RLock()
	r, exists := reg.rooms[key]
	reg.mu.RUnlock()
	if exists {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	// Double-check after acquiring the write lock.
	if r, exists := reg.rooms[key]; exists {
		return r
	}

	r = newRoom(key, reg.maxPlayers)
	reg.rooms[key] = r
	metrics.SetActiveRooms(len(reg.rooms))
	return r
}

// Get returns the room registered under key, if any.
func (reg *Registry) Get(key Key) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, exists := reg.rooms[key]
	return r, exists
}

// SweepEmpty removes every room currently holding zero sessions and
// returns how many were removed. It is idempotent and safe to call
// redundantly; each removed room is marked closed first so a join racing
// the sweep re-resolves its key instead of landing in an orphaned room.
func (reg *Registry) SweepEmpty() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := 0
	for key, r := range reg.rooms {
		if r.tryClose() {
			delete(reg.rooms, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.SetActiveRooms(len(reg.rooms))
	}
	return removed
}

// Snapshot returns the current room and player totals. Each room's count
// is read under that room's lock, so no per-room count is torn, and the
// registry lock is held only for the duration of the scan.
func (reg *Registry) Snapshot() Aggregate {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	agg := Aggregate{Rooms: len(reg.rooms)}
	for _, r := range reg.rooms {
		agg.Players += r.Len()
	}
	return agg
}

// List returns the rooms currently held by the registry.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
