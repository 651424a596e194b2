package service_test

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

// fakeBroadcaster records published events for assertion.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	ListID  uuid.UUID // Nil for broadcast-to-all
	Event   string
	Payload any
}

func (f *fakeBroadcaster) PublishToList(listID uuid.UUID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{ListID: listID, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) PublishToAll(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Event: event, Payload: payload})
}

func (f *fakeBroadcaster) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Role fixtures mirroring the seeded capability matrix.

func ownerRole() *domain.Role {
	return &domain.Role{
		ID: uuid.New(), Name: domain.RoleOwner,
		CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
		CanMarkPurchased: true, CanEditListDetails: true,
		CanManageCollaborators: true, CanDeleteList: true, CanArchiveList: true,
		PriorityOrder: 1,
	}
}

func editorRole() *domain.Role {
	return &domain.Role{
		ID: uuid.New(), Name: domain.RoleEditor,
		CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
		CanMarkPurchased: true,
		PriorityOrder:    2,
	}
}

func editorLimitedRole() *domain.Role {
	return &domain.Role{
		ID: uuid.New(), Name: domain.RoleEditorLimited,
		CanCreateItems: true, CanEditItems: true, CanDeleteItems: true,
		CanEditOwnItemsOnly: true, CanMarkPurchased: true,
		PriorityOrder: 3,
	}
}

func viewerRole() *domain.Role {
	return &domain.Role{ID: uuid.New(), Name: domain.RoleViewer, PriorityOrder: 4}
}

// activeCollab builds an accepted collaboration carrying the given role.
func activeCollab(listID, userID uuid.UUID, role *domain.Role) *domain.Collaboration {
	now := time.Now().Add(-time.Hour)
	c := domain.NewCollaboration(listID, userID, role.ID, uuid.New(), now)
	_ = c.Accept(now)
	c.Role = role
	return c
}
