package protocol

import (
	"encoding/json"
	"errors"
)

// Message types accepted from clients.
const (
	TypeJoin        = "join"
	TypeStateUpdate = "state_update"
	TypeCustom      = "custom"
)

// Message types sent to clients.
const (
	TypeRoomState    = "room_state"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeError        = "error"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrMissingType = errors.New("message has no type")
)

// Inbound is the envelope every client frame is decoded into. Only the
// fields relevant to the declared type are populated; Data stays raw so a
// custom event's payload can be relayed verbatim.
type Inbound struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId"`
	Username string          `json:"username"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// Decode parses a raw client frame. Unparsable frames and frames without a
// type are reported as errors; callers are expected to drop them silently
// per the wire contract.
func Decode(raw []byte) (*Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, ErrMalformed
	}
	if msg.Type == "" {
		return nil, ErrMissingType
	}
	return &msg, nil
}

// StateDelta decodes the partial-state object of a state_update frame.
func (m *Inbound) StateDelta() (map[string]any, error) {
	if len(m.Data) == 0 {
		return nil, ErrMalformed
	}
	var delta map[string]any
	if err := json.Unmarshal(m.Data, &delta); err != nil {
		return nil, ErrMalformed
	}
	return delta, nil
}

// PlayerInfo is one member entry inside a room_state snapshot.
type PlayerInfo struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Data     map[string]any `json:"data"`
}

// RoomState is the snapshot unicast to a client that just joined. It lists
// the members present before the join, never the joiner itself.
type RoomState struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

// PlayerJoined announces a new member to the rest of the room.
type PlayerJoined struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// StateUpdate relays a state delta to the room. Data carries only the
// fields submitted in the originating update, not the merged state.
type StateUpdate struct {
	Type     string         `json:"type"`
	PlayerID string         `json:"playerId"`
	Username string         `json:"username"`
	Data     map[string]any `json:"data"`
}

// CustomEvent relays an application-defined event verbatim.
type CustomEvent struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// PlayerLeft announces a departed member to the remaining room.
type PlayerLeft struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// ErrorMessage carries a client-visible failure, currently only capacity
// rejection on join.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewRoomState(players []PlayerInfo) RoomState {
	if players == nil {
		players = []PlayerInfo{}
	}
	return RoomState{Type: TypeRoomState, Players: players}
}

func NewPlayerJoined(playerID, username string) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, PlayerID: playerID, Username: username}
}

func NewStateUpdate(playerID, username string, delta map[string]any) StateUpdate {
	return StateUpdate{Type: TypeStateUpdate, PlayerID: playerID, Username: username, Data: delta}
}

func NewCustomEvent(playerID, event string, data json.RawMessage) CustomEvent {
	return CustomEvent{Type: TypeCustom, PlayerID: playerID, Event: event, Data: data}
}

func NewPlayerLeft(playerID, username string) PlayerLeft {
	return PlayerLeft{Type: TypePlayerLeft, PlayerID: playerID, Username: username}
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

// Encode serializes an outbound message once so broadcasts can reuse the
// same payload for every recipient.
func Encode(msg any) ([]byte, error) {
	return json.Marshal(msg)
}
