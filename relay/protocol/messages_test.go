package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeJoin(t *testing.T) {
	raw := []byte(`{"type":"join","playerId":"p1","username":"Al"}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if msg.Type != TypeJoin {
		t.Errorf("Expected type %q, got %q", TypeJoin, msg.Type)
	}
	if msg.PlayerID != "p1" {
		t.Errorf("Expected playerId p1, got %q", msg.PlayerID)
	}
	if msg.Username != "Al" {
		t.Errorf("Expected username Al, got %q", msg.Username)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"invalid json", `{not json`, ErrMalformed},
		{"json array", `[1,2,3]`, ErrMalformed},
		{"missing type", `{"playerId":"p1"}`, ErrMissingType},
		{"empty type", `{"type":""}`, ErrMissingType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStateDelta(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"state_update","data":{"x":1,"name":"Al"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	delta, err := msg.StateDelta()
	if err != nil {
		t.Fatalf("StateDelta failed: %v", err)
	}

	if delta["x"] != float64(1) {
		t.Errorf("Expected x=1, got %v", delta["x"])
	}
	if delta["name"] != "Al" {
		t.Errorf("Expected name=Al, got %v", delta["name"])
	}
}

func TestStateDeltaMissingOrInvalid(t *testing.T) {
	msg, _ := Decode([]byte(`{"type":"state_update"}`))
	if _, err := msg.StateDelta(); err == nil {
		t.Error("Expected error for missing data")
	}

	msg, _ = Decode([]byte(`{"type":"state_update","data":"not an object"}`))
	if _, err := msg.StateDelta(); err == nil {
		t.Error("Expected error for non-object data")
	}
}

func TestCustomEventRelaysDataVerbatim(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"custom","event":"ping","data":{"nested":{"deep":true}}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	out := NewCustomEvent("p1", msg.Event, msg.Data)
	payload, err := Encode(out)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("Failed to parse encoded payload: %v", err)
	}

	if parsed["type"] != TypeCustom {
		t.Errorf("Expected type custom, got %v", parsed["type"])
	}
	if parsed["event"] != "ping" {
		t.Errorf("Expected event ping, got %v", parsed["event"])
	}

	data, ok := parsed["data"].(map[string]any)
	if !ok {
		t.Fatalf("Expected data object, got %T", parsed["data"])
	}
	nested, ok := data["nested"].(map[string]any)
	if !ok || nested["deep"] != true {
		t.Error("Nested data not relayed verbatim")
	}
}

func TestNewRoomStateNeverNilPlayers(t *testing.T) {
	payload, err := Encode(NewRoomState(nil))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var parsed struct {
		Players []PlayerInfo `json:"players"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("Failed to parse payload: %v", err)
	}

	if parsed.Players == nil {
		t.Error("Empty room_state should serialize players as [], not null")
	}
}
