// Package metrics exposes Prometheus instrumentation for the relay server.
// All instruments register against the default registry and are served by
// the API server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roomrelay"

var (
	openConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_connections",
		Help:      "Number of open WebSocket connections",
	})

	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_rooms",
		Help:      "Number of rooms currently held by the registry",
	})

	joinedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "joined_players",
		Help:      "Number of sessions currently joined to a room",
	})

	messagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_relayed_total",
		Help:      "Total messages fanned out to room members, by type",
	}, []string{"type"})

	deliveryDrops = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_drops_total",
		Help:      "Total per-recipient deliveries dropped (closed or slow peer)",
	})

	joinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "joins_rejected_total",
		Help:      "Total rejected join attempts, by reason",
	}, []string{"reason"})
)

// RecordConnectionOpen records a newly accepted WebSocket connection.
func RecordConnectionOpen() {
	openConnections.Inc()
}

// RecordConnectionClose records a closed WebSocket connection.
func RecordConnectionClose() {
	openConnections.Dec()
}

// SetActiveRooms records the current room count.
func SetActiveRooms(n int) {
	activeRooms.Set(float64(n))
}

// RecordPlayerJoin records a session joining a room.
func RecordPlayerJoin() {
	joinedPlayers.Inc()
}

// RecordPlayerLeave records a session leaving a room.
func RecordPlayerLeave() {
	joinedPlayers.Dec()
}

// RecordRelayed records one message fanned out to room members.
func RecordRelayed(messageType string) {
	messagesRelayed.WithLabelValues(messageType).Inc()
}

// RecordDeliveryDrop records a per-recipient delivery that was dropped.
func RecordDeliveryDrop() {
	deliveryDrops.Inc()
}

// RecordJoinRejected records a rejected join attempt.
func RecordJoinRejected(reason string) {
	joinsRejected.WithLabelValues(reason).Inc()
}
