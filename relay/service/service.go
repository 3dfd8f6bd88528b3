package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/relaywire/roomrelay/relay/protocol"
	"github.com/relaywire/roomrelay/relay/room"
)

var ErrRoomNotFound = errors.New("room not found")

// Outcome classifies how the service handled an operation.
type Outcome string

const (
	// OutcomeOK means the operation was applied and relayed.
	OutcomeOK Outcome = "ok"

	// OutcomeRejected means the operation was refused with a
	// client-visible error message.
	OutcomeRejected Outcome = "rejected"

	// OutcomeIgnored means the operation was dropped with no response,
	// matching the wire contract for malformed or unauthorized input.
	OutcomeIgnored Outcome = "ignored"
)

// JoinResult reports the result of a join attempt.
type JoinResult struct {
	Outcome Outcome

	// Session is the joined session on OutcomeOK, nil otherwise.
	Session *room.Session

	// Rejoined is set when the join replaced an earlier join on the same
	// connection.
	Rejoined bool

	// Reason is the client-visible error message on OutcomeRejected.
	Reason string

	// CloseConnection tells the transport to close the connection after
	// delivering the error. Set for capacity rejections only.
	CloseConnection bool
}

// Status is the aggregate reported by the status endpoint.
type Status struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
}

// RoomInfo is one entry in the room listing.
type RoomInfo struct {
	GameID  string `json:"game_id"`
	RoomID  string `json:"room_id"`
	Players int    `json:"players"`
}

// RoomDetail is the full membership view of a single room.
type RoomDetail struct {
	GameID  string                `json:"game_id"`
	RoomID  string                `json:"room_id"`
	Players []protocol.PlayerInfo `json:"players"`
}

// RelayService defines all room relay operations. Mutating operations
// return discriminated results; wire-visible behavior for ignored input
// stays "no response".
type RelayService interface {
	// Join admits a connection into the room identified by key. prev is
	// the connection's current session if it already joined one, in which
	// case the join is treated as a rejoin and the old session is removed
	// first.
	Join(ctx context.Context, key room.Key, sender room.Sender, playerID, username string, prev *room.Session) JoinResult

	// UpdateState merges a state delta into the session and relays the
	// delta to the rest of the room.
	UpdateState(ctx context.Context, sess *room.Session, delta map[string]any) Outcome

	// CustomEvent relays an application-defined event verbatim.
	CustomEvent(ctx context.Context, sess *room.Session, event string, data json.RawMessage) Outcome

	// Disconnect removes a session from its room, notifies the remaining
	// members, and sweeps empty rooms. Safe to call with a nil session.
	Disconnect(ctx context.Context, sess *room.Session)

	// Status returns the current registry aggregates.
	Status(ctx context.Context) Status

	// ListRooms returns a summary of every live room.
	ListRooms(ctx context.Context) []RoomInfo

	// GetRoom returns the membership of one room.
	GetRoom(ctx context.Context, gameID, roomID string) (*RoomDetail, error)

	// SweepEmptyRooms removes all currently-empty rooms and reports how
	// many were removed.
	SweepEmptyRooms(ctx context.Context) int
}
