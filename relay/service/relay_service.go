package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"

	"github.com/relaywire/roomrelay/relay/metrics"
	"github.com/relaywire/roomrelay/relay/room"
)

// relayService is the production RelayService backed by a room.Registry.
type relayService struct {
	registry *room.Registry
}

// NewRelayService creates the relay service around an explicitly owned
// registry, so multiple independent instances can coexist in one process.
func NewRelayService(registry *room.Registry) RelayService {
	return &relayService{registry: registry}
}

func (s *relayService) Join(ctx context.Context, key room.Key, sender room.Sender, playerID, username string, prev *room.Session) JoinResult {
	if playerID == "" {
		return JoinResult{Outcome: OutcomeIgnored}
	}

	// A second join on an already-joined connection is a rejoin: the old
	// session leaves its room (peers get player_left) before the new join
	// proceeds.
	rejoined := false
	if prev != nil {
		s.Disconnect(ctx, prev)
		rejoined = true
	}

	sess := room.NewSession(playerID, username, sender)

	for {
		r := s.registry.GetOrCreate(key)
		err := r.Join(sess)
		switch {
		case err == nil:
			return JoinResult{Outcome: OutcomeOK, Session: sess, Rejoined: rejoined}

		case errors.Is(err, room.ErrRoomClosed):
			// Lost a race with the empty-room sweep; re-resolve the key.
			continue

		case errors.Is(err, room.ErrRoomFull):
			metrics.RecordJoinRejected("full")
			return JoinResult{
				Outcome:         OutcomeRejected,
				Rejoined:        rejoined,
				Reason:          "room is full",
				CloseConnection: true,
			}

		case errors.Is(err, room.ErrDuplicatePlayer):
			metrics.RecordJoinRejected("duplicate")
			return JoinResult{
				Outcome:  OutcomeRejected,
				Rejoined: rejoined,
				Reason:   "player id already taken",
			}

		default:
			log.Printf("Unexpected join error for %s/%s: %v", key.GameID, key.RoomID, err)
			return JoinResult{Outcome: OutcomeIgnored, Rejoined: rejoined}
		}
	}
}

func (s *relayService) UpdateState(ctx context.Context, sess *room.Session, delta map[string]any) Outcome {
	if sess == nil || sess.Room() == nil || len(delta) == 0 {
		return OutcomeIgnored
	}
	if err := sess.Room().UpdateState(sess, delta); err != nil {
		return OutcomeIgnored
	}
	return OutcomeOK
}

func (s *relayService) CustomEvent(ctx context.Context, sess *room.Session, event string, data json.RawMessage) Outcome {
	if sess == nil || sess.Room() == nil || event == "" {
		return OutcomeIgnored
	}
	if err := sess.Room().RelayCustom(sess, event, data); err != nil {
		return OutcomeIgnored
	}
	return OutcomeOK
}

func (s *relayService) Disconnect(ctx context.Context, sess *room.Session) {
	if sess == nil || sess.Room() == nil {
		return
	}
	if sess.Room().Leave(sess.PlayerID) {
		s.registry.SweepEmpty()
	}
}

func (s *relayService) Status(ctx context.Context) Status {
	agg := s.registry.Snapshot()
	return Status{Rooms: agg.Rooms, Players: agg.Players}
}

func (s *relayService) ListRooms(ctx context.Context) []RoomInfo {
	rooms := s.registry.List()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		key := r.Key()
		infos = append(infos, RoomInfo{
			GameID:  key.GameID,
			RoomID:  key.RoomID,
			Players: r.Len(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].GameID != infos[j].GameID {
			return infos[i].GameID < infos[j].GameID
		}
		return infos[i].RoomID < infos[j].RoomID
	})
	return infos
}

func (s *relayService) GetRoom(ctx context.Context, gameID, roomID string) (*RoomDetail, error) {
	r, exists := s.registry.Get(room.NewKey(gameID, roomID))
	if !exists {
		return nil, ErrRoomNotFound
	}

	key := r.Key()
	return &RoomDetail{
		GameID:  key.GameID,
		RoomID:  key.RoomID,
		Players: r.Players(),
	}, nil
}

func (s *relayService) SweepEmptyRooms(ctx context.Context) int {
	return s.registry.SweepEmpty()
}
