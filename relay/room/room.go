package room

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/relaywire/roomrelay/relay/metrics"
	"github.com/relaywire/roomrelay/relay/protocol"
)

var (
	ErrRoomFull        = errors.New("room is full")
	ErrDuplicatePlayer = errors.New("player id already taken in this room")
	ErrRoomClosed      = errors.New("room has been closed")
	ErrNotMember       = errors.New("player is not a member of this room")
)

// Room is an isolated broadcast domain. Membership is keyed by playerId
// and guarded by a single RWMutex, making join, leave, state merge, and
// broadcast linearizable per room. Sends performed under the lock are
// non-blocking enqueues, so holding the lock across a fan-out is safe.
type Room struct {
	key        Key
	maxPlayers int
	createdAt  time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

func newRoom(key Key, maxPlayers int) *Room {
	return &Room{
		key:        key,
		maxPlayers: maxPlayers,
		createdAt:  time.Now(),
		sessions:   make(map[string]*Session),
	}
}

// Key returns the (gameId, roomId) key this room is registered under.
func (r *Room) Key() Key {
	return r.key
}

// Len returns the current member count.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Join admits a session into the room. In one critical section it checks
// capacity and playerId uniqueness, unicasts the room_state snapshot to
// the joiner (taken before insertion, so the joiner never sees itself),
// inserts the session, and broadcasts player_joined to the other members.
func (r *Room) Join(sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if len(r.sessions) >= r.maxPlayers {
		return ErrRoomFull
	}
	if _, exists := r.sessions[sess.PlayerID]; exists {
		return ErrDuplicatePlayer
	}

	if payload, err := protocol.Encode(protocol.NewRoomState(r.playerInfosLocked())); err == nil {
		sess.Deliver(payload)
	}

	r.sessions[sess.PlayerID] = sess
	sess.joined = r

	if payload, err := protocol.Encode(protocol.NewPlayerJoined(sess.PlayerID, sess.Username)); err == nil {
		r.broadcastLocked(payload, sess.PlayerID)
		metrics.RecordRelayed(protocol.TypePlayerJoined)
	}

	metrics.RecordPlayerJoin()
	return nil
}

// Leave removes a session by playerId and broadcasts player_left to the
// remaining members. Removing an absent player is a no-op. The caller is
// responsible for sweeping the registry afterwards.
func (r *Room) Leave(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[playerID]
	if !exists {
		return false
	}
	delete(r.sessions, playerID)

	if payload, err := protocol.Encode(protocol.NewPlayerLeft(sess.PlayerID, sess.Username)); err == nil {
		r.broadcastLocked(payload, "")
		metrics.RecordRelayed(protocol.TypePlayerLeft)
	}

	metrics.RecordPlayerLeave()
	return true
}

// UpdateState shallow-merges delta into the session's stored state and
// broadcasts a state_update carrying only the delta to everyone but the
// sender.
func (r *Room) UpdateState(sess *Session, delta map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[sess.PlayerID] != sess {
		return ErrNotMember
	}

	sess.mergeState(delta)

	if payload, err := protocol.Encode(protocol.NewStateUpdate(sess.PlayerID, sess.Username, delta)); err == nil {
		r.broadcastLocked(payload, sess.PlayerID)
		metrics.RecordRelayed(protocol.TypeStateUpdate)
	}
	return nil
}

// RelayCustom broadcasts a custom event verbatim to everyone but the
// sender without touching any stored state.
func (r *Room) RelayCustom(sess *Session, event string, data []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.sessions[sess.PlayerID] != sess {
		return ErrNotMember
	}

	if payload, err := protocol.Encode(protocol.NewCustomEvent(sess.PlayerID, event, data)); err == nil {
		r.broadcastLocked(payload, sess.PlayerID)
		metrics.RecordRelayed(protocol.TypeCustom)
	}
	return nil
}

// Broadcast serializes msg once and delivers it to every member except
// excludePlayerID (pass "" to exclude no one).
func (r *Room) Broadcast(msg any, excludePlayerID string) error {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	r.broadcastLocked(payload, excludePlayerID)
	return nil
}

// Players returns a snapshot of the current members sorted by join time,
// with a copy of each state map.
func (r *Room) Players() []protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerInfosLocked()
}

// Member returns the session joined under playerID, if any.
func (r *Room) Member(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[playerID]
	return sess, ok
}

// tryClose marks an empty room closed so concurrent joins re-resolve the
// key. Returns false if the room still has members.
func (r *Room) tryClose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *Room) broadcastLocked(payload []byte, excludePlayerID string) {
	for id, sess := range r.sessions {
		if excludePlayerID != "" && id == excludePlayerID {
			continue
		}
		sess.Deliver(payload)
	}
}

func (r *Room) playerInfosLocked() []protocol.PlayerInfo {
	members := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		members = append(members, sess)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	infos := make([]protocol.PlayerInfo, 0, len(members))
	for _, sess := range members {
		infos = append(infos, protocol.PlayerInfo{
			ID:       sess.PlayerID,
			Username: sess.Username,
			Data:     sess.stateCopy(),
		})
	}
	return infos
}
