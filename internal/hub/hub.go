package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/metrics"
	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// AccessChecker answers whether a user may subscribe to a list's events. The
// permission service satisfies it.
type AccessChecker interface {
	CanAccess(ctx context.Context, userID, listID uuid.UUID) bool
}

// HubMessage is the internal envelope between clients and the Hub loop.
type HubMessage struct {
	Type    string // "register", "unregister", "client_op"
	Client  *Client
	RawData []byte // only for client_op
}

// clientOp is the wire format clients send over the socket.
type clientOp struct {
	Type     string    `json:"type"` // "join_list", "leave_list", "update_presence"
	ListID   uuid.UUID `json:"listId"`
	IsActive bool      `json:"isActive"`
}

// Hub owns every live websocket client and the per-list subscriber groups. It
// implements realtime.Broadcaster: delivery is best-effort and at-most-once
// per connection, a slow client's full buffer drops the message rather than
// blocking the rest of the fan-out. Events published to one list reach its
// subscribers in publish order.
type Hub struct {
	messageChan chan HubMessage

	mu       sync.RWMutex
	clients  map[*Client]bool
	listSubs map[uuid.UUID]map[*Client]bool

	registry realtime.Registry
	access   AccessChecker
}

// NewHub creates a Hub bound to the given registry and access checker.
func NewHub(registry realtime.Registry, access AccessChecker) *Hub {
	if registry == nil {
		panic("Registry cannot be nil for Hub")
	}
	if access == nil {
		panic("AccessChecker cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		clients:     make(map[*Client]bool),
		listSubs:    make(map[uuid.UUID]map[*Client]bool),
		registry:    registry,
		access:      access,
	}
}

// Run drives the Hub's event loop. It should run in its own goroutine and
// exits when the message channel closes.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "client_op":
			// Handled off the loop so a slow permission lookup cannot stall
			// registration traffic.
			go h.handleClientOp(msg)
		default:
			log.Warnf("Hub: received unknown message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

// QueueMessage enqueues a message for the Hub loop without blocking. Returns
// false when the queue is full.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	h.registry.AddConnection(client.UserID(), client.ConnID())
	metrics.ConnectionsActive.Inc()
	logrus.WithFields(logrus.Fields{
		"user_id": client.UserID(),
		"conn_id": client.ConnID(),
	}).Info("Client registered to Hub")
}

// unregisterClient tears the connection down. List departures are announced
// only when this was the user's last connection; a second tab keeps their
// viewer entries alive.
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id": client.UserID(),
		"conn_id": client.ConnID(),
	})

	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		logCtx.Warn("Client not found during unregister")
		return
	}
	delete(h.clients, client)
	for listID := range client.lists {
		h.dropSubscriberLocked(listID, client)
	}
	close(client.send)
	h.mu.Unlock()

	h.registry.RemoveConnection(client.UserID(), client.ConnID())
	metrics.ConnectionsActive.Dec()

	if len(h.registry.Connections(client.UserID())) == 0 {
		left := h.registry.LeaveAllLists(client.UserID())
		now := time.Now().UTC()
		for _, listID := range left {
			h.publishToList(listID, realtime.EventUserLeft, realtime.PresenceEvent{
				ListID: listID, UserID: client.UserID(), Timestamp: now,
			}, nil)
		}
		if len(left) > 0 {
			logCtx.WithField("lists_left", len(left)).Info("Last connection gone, departures announced")
		}
	}
	logCtx.Info("Client unregistered from Hub")
}

func (h *Hub) handleClientOp(msg HubMessage) {
	client := msg.Client
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id": client.UserID(),
		"conn_id": client.ConnID(),
	})

	var op clientOp
	if err := json.Unmarshal(msg.RawData, &op); err != nil {
		logCtx.WithError(err).Warn("Discarding malformed client message")
		return
	}
	if op.ListID == uuid.Nil {
		logCtx.Warnf("Client op %q missing listId", op.Type)
		return
	}

	switch op.Type {
	case "join_list":
		h.joinList(client, op.ListID)
	case "leave_list":
		h.leaveList(client, op.ListID)
	case "update_presence":
		h.updatePresence(client, op.ListID, op.IsActive)
	default:
		logCtx.Warnf("Unknown client op type: %s", op.Type)
	}
}

// joinList subscribes the client to a list after an access check. The joiner
// does not receive their own UserJoined.
func (h *Hub) joinList(client *Client, listID uuid.UUID) {
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id": client.UserID(),
		"list_id": listID,
	})

	if !h.access.CanAccess(context.Background(), client.UserID(), listID) {
		logCtx.Warn("Join rejected: no access to list")
		client.sendError("no access to list")
		return
	}

	h.mu.Lock()
	subs, ok := h.listSubs[listID]
	if !ok {
		subs = make(map[*Client]bool)
		h.listSubs[listID] = subs
	}
	subs[client] = true
	client.lists[listID] = struct{}{}
	h.mu.Unlock()

	h.registry.JoinList(client.UserID(), listID)
	h.publishToList(listID, realtime.EventUserJoined, realtime.PresenceEvent{
		ListID: listID, UserID: client.UserID(), IsActive: true, Timestamp: time.Now().UTC(),
	}, client)
	logCtx.Info("Client joined list")
}

func (h *Hub) leaveList(client *Client, listID uuid.UUID) {
	h.mu.Lock()
	if _, subscribed := client.lists[listID]; !subscribed {
		h.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"user_id": client.UserID(),
			"list_id": listID,
		}).Debug("Ignoring leave for a list the client never joined")
		return
	}
	h.dropSubscriberLocked(listID, client)
	delete(client.lists, listID)
	h.mu.Unlock()

	h.registry.LeaveList(client.UserID(), listID)
	h.publishToList(listID, realtime.EventUserLeft, realtime.PresenceEvent{
		ListID: listID, UserID: client.UserID(), Timestamp: time.Now().UTC(),
	}, client)
	logrus.WithFields(logrus.Fields{
		"user_id": client.UserID(),
		"list_id": listID,
	}).Info("Client left list")
}

func (h *Hub) updatePresence(client *Client, listID uuid.UUID, active bool) {
	// The registry ignores presence updates from non-viewers; mirror that here
	// so we never broadcast a flag the registry did not record.
	if !h.registry.IsActive(client.UserID(), listID) && !containsID(h.registry.Lists(client.UserID()), listID) {
		return
	}
	h.registry.SetPresence(client.UserID(), listID, active)
	h.publishToList(listID, realtime.EventPresenceUpdate, realtime.PresenceEvent{
		ListID: listID, UserID: client.UserID(), IsActive: active, Timestamp: time.Now().UTC(),
	}, client)
}

// dropSubscriberLocked removes the client from one list's group. Caller holds mu.
func (h *Hub) dropSubscriberLocked(listID uuid.UUID, client *Client) {
	if subs, ok := h.listSubs[listID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.listSubs, listID)
		}
	}
}

// PublishToList sends the event to every subscriber of the list.
func (h *Hub) PublishToList(listID uuid.UUID, event string, payload any) {
	h.publishToList(listID, event, payload, nil)
	metrics.EventsPublished.WithLabelValues(event, "list").Inc()
}

// PublishToAll sends the event to every connected client.
func (h *Hub) PublishToAll(event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		logrus.WithField("event", event).WithError(err).Error("Failed to marshal event payload")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.deliver(targets, data, event)
	metrics.EventsPublished.WithLabelValues(event, "all").Inc()
}

func (h *Hub) publishToList(listID uuid.UUID, event string, payload any, exclude *Client) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		logrus.WithField("event", event).WithError(err).Error("Failed to marshal event payload")
		return
	}

	h.mu.RLock()
	subs := h.listSubs[listID]
	targets := make([]*Client, 0, len(subs))
	for client := range subs {
		if client != exclude {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	h.deliver(targets, data, event)
}

// deliver fans one marshaled message out with non-blocking sends. A full send
// buffer means the message is dropped for that client only.
func (h *Hub) deliver(targets []*Client, data []byte, event string) {
	for _, client := range targets {
		select {
		case client.send <- data:
		default:
			metrics.MessagesDropped.Inc()
			logrus.WithFields(logrus.Fields{
				"event":   event,
				"user_id": client.UserID(),
			}).Warn("Client send channel full, message dropped")
		}
	}
}

// marshalEnvelope serializes the wire envelope once per event so fan-out does
// not repeat the work per client.
func marshalEnvelope(event string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
}

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
