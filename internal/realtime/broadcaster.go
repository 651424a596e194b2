package realtime

import "github.com/google/uuid"

// Broadcaster pushes named events to connected clients. Delivery is
// best-effort, at-most-once: there is no queue, replay log or acknowledgment,
// and a client that is offline or slow simply misses the event. For a single
// list, events reach subscribers in the order they were published; there is no
// cross-list ordering guarantee. Callers publish only after the underlying
// state change has durably succeeded.
type Broadcaster interface {
	// PublishToList delivers the event to clients currently viewing the list.
	PublishToList(listID uuid.UUID, event string, payload any)

	// PublishToAll delivers the event to every connected client.
	PublishToAll(event string, payload any)
}
