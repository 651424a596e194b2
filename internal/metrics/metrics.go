// Package metrics holds the Prometheus collectors shared across the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublished counts realtime events by name and scope ("list" or "all").
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplist_events_published_total",
		Help: "Realtime events published, by event name and scope.",
	}, []string{"event", "scope"})

	// ConnectionsActive tracks live websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shoplist_ws_connections",
		Help: "Currently open websocket connections.",
	})

	// MessagesDropped counts messages not delivered because a client's send
	// buffer was full. Delivery is best-effort; this is the visibility for it.
	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoplist_ws_messages_dropped_total",
		Help: "Messages dropped due to a full client send buffer.",
	})
)
