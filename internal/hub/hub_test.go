package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
)

// fakeAccess grants access to every list except the ones listed as denied.
type fakeAccess struct {
	denied map[uuid.UUID]bool
}

func (f *fakeAccess) CanAccess(_ context.Context, _, listID uuid.UUID) bool {
	return !f.denied[listID]
}

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func newTestHub() *Hub {
	return NewHub(realtime.NewRegistry(), &fakeAccess{denied: map[uuid.UUID]bool{}})
}

func newTestClient(h *Hub, userID uuid.UUID) *Client {
	return NewClient(h, nil, userID)
}

// recv pops one frame off the client's send channel, failing fast when none
// arrives.
func recv(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return envelope{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("expected no frame, got %s", data)
	default:
	}
}

func TestHub_PublishToList_ReachesSubscribersInOrder(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	a := newTestClient(h, uuid.New())
	b := newTestClient(h, uuid.New())
	h.registerClient(a)
	h.registerClient(b)
	h.joinList(a, listID)
	h.joinList(b, listID)
	recv(t, a) // b's UserJoined announcement

	h.PublishToList(listID, realtime.EventItemAdded, map[string]string{"seq": "1"})
	h.PublishToList(listID, realtime.EventItemUpdated, map[string]string{"seq": "2"})

	for _, c := range []*Client{a, b} {
		first := recv(t, c)
		second := recv(t, c)
		assert.Equal(t, realtime.EventItemAdded, first.Event)
		assert.Equal(t, realtime.EventItemUpdated, second.Event)
	}
}

func TestHub_PublishToList_SkipsNonSubscribers(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	member := newTestClient(h, uuid.New())
	outsider := newTestClient(h, uuid.New())
	h.registerClient(member)
	h.registerClient(outsider)
	h.joinList(member, listID)

	h.PublishToList(listID, realtime.EventItemAdded, nil)

	recv(t, member)
	assertNoFrame(t, outsider)
}

func TestHub_PublishToAll(t *testing.T) {
	h := newTestHub()
	a := newTestClient(h, uuid.New())
	b := newTestClient(h, uuid.New())
	h.registerClient(a)
	h.registerClient(b)

	h.PublishToAll(realtime.EventListCreated, map[string]string{"name": "Groceries"})

	assert.Equal(t, realtime.EventListCreated, recv(t, a).Event)
	assert.Equal(t, realtime.EventListCreated, recv(t, b).Event)
}

func TestHub_JoinAnnouncementExcludesJoiner(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	a := newTestClient(h, uuid.New())
	b := newTestClient(h, uuid.New())
	h.registerClient(a)
	h.registerClient(b)

	h.joinList(a, listID)
	assertNoFrame(t, a) // nobody else subscribed yet, and never their own join

	h.joinList(b, listID)
	env := recv(t, a)
	assert.Equal(t, realtime.EventUserJoined, env.Event)

	var presence realtime.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Payload, &presence))
	assert.Equal(t, b.UserID(), presence.UserID)
	assertNoFrame(t, b)
}

func TestHub_JoinDeniedWithoutAccess(t *testing.T) {
	registry := realtime.NewRegistry()
	listID := uuid.New()
	h := NewHub(registry, &fakeAccess{denied: map[uuid.UUID]bool{listID: true}})

	c := newTestClient(h, uuid.New())
	h.registerClient(c)
	h.joinList(c, listID)

	var errFrame map[string]string
	select {
	case data := <-c.send:
		require.NoError(t, json.Unmarshal(data, &errFrame))
	case <-time.After(time.Second):
		t.Fatal("expected an error frame")
	}
	assert.Equal(t, "Error", errFrame["event"])
	assert.Empty(t, registry.Lists(c.UserID()))

	h.mu.RLock()
	_, subscribed := h.listSubs[listID]
	h.mu.RUnlock()
	assert.False(t, subscribed)
}

func TestHub_UnregisterAnnouncesDepartureOnlyOnLastConnection(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()
	userID := uuid.New()

	watcher := newTestClient(h, uuid.New())
	h.registerClient(watcher)
	h.joinList(watcher, listID)

	tab1 := newTestClient(h, userID)
	tab2 := newTestClient(h, userID)
	h.registerClient(tab1)
	h.registerClient(tab2)
	h.joinList(tab1, listID)
	recv(t, watcher) // UserJoined for tab1

	// First tab closing must not announce a departure, the user is still here.
	h.unregisterClient(tab1)
	assertNoFrame(t, watcher)

	h.unregisterClient(tab2)
	env := recv(t, watcher)
	assert.Equal(t, realtime.EventUserLeft, env.Event)

	var presence realtime.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Payload, &presence))
	assert.Equal(t, userID, presence.UserID)
	assert.Empty(t, h.registry.Lists(userID))
}

func TestHub_LeaveWithoutJoinIsSilent(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	member := newTestClient(h, uuid.New())
	outsider := newTestClient(h, uuid.New())
	h.registerClient(member)
	h.registerClient(outsider)
	h.joinList(member, listID)

	// The outsider never joined; their leave must not announce a departure.
	h.leaveList(outsider, listID)
	assertNoFrame(t, member)

	// A real member's leave still announces.
	h.joinList(outsider, listID)
	recv(t, member) // outsider's UserJoined
	h.leaveList(outsider, listID)
	assert.Equal(t, realtime.EventUserLeft, recv(t, member).Event)
}

func TestHub_UpdatePresence(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	a := newTestClient(h, uuid.New())
	b := newTestClient(h, uuid.New())
	h.registerClient(a)
	h.registerClient(b)
	h.joinList(a, listID)
	h.joinList(b, listID)
	recv(t, a) // b's join

	h.updatePresence(b, listID, false)

	env := recv(t, a)
	assert.Equal(t, realtime.EventPresenceUpdate, env.Event)
	var presence realtime.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Payload, &presence))
	assert.Equal(t, b.UserID(), presence.UserID)
	assert.False(t, presence.IsActive)
	assert.False(t, h.registry.IsActive(b.UserID(), listID))
	assertNoFrame(t, b) // sender does not echo their own presence
}

func TestHub_UpdatePresence_IgnoredForNonMembers(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	member := newTestClient(h, uuid.New())
	stranger := newTestClient(h, uuid.New())
	h.registerClient(member)
	h.registerClient(stranger)
	h.joinList(member, listID)

	h.updatePresence(stranger, listID, true)

	assertNoFrame(t, member)
}

func TestHub_FullSendBufferDropsInsteadOfBlocking(t *testing.T) {
	h := newTestHub()
	listID := uuid.New()

	slow := newTestClient(h, uuid.New())
	slow.send = make(chan []byte, 1)
	healthy := newTestClient(h, uuid.New())
	h.registerClient(slow)
	h.registerClient(healthy)
	h.joinList(slow, listID)
	h.joinList(healthy, listID)
	recv(t, slow) // healthy's UserJoined announcement

	h.PublishToList(listID, realtime.EventItemAdded, map[string]string{"seq": "1"})
	h.PublishToList(listID, realtime.EventItemUpdated, map[string]string{"seq": "2"})

	// Slow client's single-slot buffer keeps only the first event.
	assert.Equal(t, realtime.EventItemAdded, recv(t, slow).Event)
	assertNoFrame(t, slow)

	// The healthy client still got both.
	assert.Equal(t, realtime.EventItemAdded, recv(t, healthy).Event)
	assert.Equal(t, realtime.EventItemUpdated, recv(t, healthy).Event)
}

func TestHub_RunProcessesClientOps(t *testing.T) {
	h := newTestHub()
	go h.Run()
	defer close(h.messageChan)

	listID := uuid.New()
	c := newTestClient(h, uuid.New())
	require.True(t, h.QueueMessage(HubMessage{Type: "register", Client: c}))

	raw, err := json.Marshal(map[string]any{"type": "join_list", "listId": listID})
	require.NoError(t, err)
	require.True(t, h.QueueMessage(HubMessage{Type: "client_op", Client: c, RawData: raw}))

	assert.Eventually(t, func() bool {
		return containsID(h.registry.Lists(c.UserID()), listID)
	}, time.Second, 10*time.Millisecond)
}
