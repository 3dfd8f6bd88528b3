package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/relaywire/roomrelay/relay/metrics"
)

// DefaultUsername is assigned when a join omits the username field.
const DefaultUsername = "Player"

// Sender delivers a serialized message to one connected client.
// Implementations must not block: a send either enqueues immediately or
// fails, and the caller treats failure as a dropped message.
type Sender interface {
	Send(payload []byte) error
}

// Session is one connected, joined client's server-side state within a
// Room. The state map is owned by the Room the session belongs to and is
// only read or mutated while holding that Room's lock.
type Session struct {
	// ConnID identifies the underlying connection, independent of the
	// client-supplied playerId.
	ConnID string

	PlayerID string
	Username string
	JoinedAt time.Time

	sender Sender
	state  map[string]any
	joined *Room
}

// NewSession creates a session for a connection that is about to join a
// room. An empty username falls back to DefaultUsername.
func NewSession(playerID, username string, sender Sender) *Session {
	if username == "" {
		username = DefaultUsername
	}
	return &Session{
		ConnID:   uuid.NewString(),
		PlayerID: playerID,
		Username: username,
		JoinedAt: time.Now(),
		sender:   sender,
		state:    make(map[string]any),
	}
}

// Deliver attempts a best-effort send to the session's transport. Failures
// are swallowed: a dropped state update is superseded by the next one.
func (s *Session) Deliver(payload []byte) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(payload); err != nil {
		metrics.RecordDeliveryDrop()
	}
}

// Room returns the room this session joined, or nil before a successful
// join. It is set during Join and stable for the session's lifetime.
func (s *Session) Room() *Room {
	return s.joined
}

// mergeState applies a shallow merge: keys present in delta overwrite,
// all other keys persist. Callers must hold the owning room's lock.
func (s *Session) mergeState(delta map[string]any) {
	for k, v := range delta {
		s.state[k] = v
	}
}

// stateCopy returns a top-level copy of the session's state map. Callers
// must hold the owning room's lock.
func (s *Session) stateCopy() map[string]any {
	cp := make(map[string]any, len(s.state))
	for k, v := range s.state {
		cp[k] = v
	}
	return cp
}
