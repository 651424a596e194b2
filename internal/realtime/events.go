package realtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
	"github.com/rkSlalom/ae-infinity-api/internal/repository"
)

// Event names pushed to clients. Item and collaborator events go to the list's
// subscriber group; list-level events go to every connected client so
// dashboards stay current.
const (
	EventItemAdded                    = "ItemAdded"
	EventItemUpdated                  = "ItemUpdated"
	EventItemDeleted                  = "ItemDeleted"
	EventItemPurchasedStatusChanged   = "ItemPurchasedStatusChanged"
	EventItemsReordered               = "ItemsReordered"
	EventListCreated                  = "ListCreated"
	EventListUpdated                  = "ListUpdated"
	EventListDeleted                  = "ListDeleted"
	EventListArchived                 = "ListArchived"
	EventCollaboratorAdded            = "CollaboratorAdded"
	EventCollaboratorRemoved          = "CollaboratorRemoved"
	EventCollaboratorPermissionChanged = "CollaboratorPermissionChanged"
	EventProfileUpdated               = "ProfileUpdated"
	EventUserJoined                   = "UserJoined"
	EventUserLeft                     = "UserLeft"
	EventPresenceUpdate               = "PresenceUpdate"
)

// Every payload is self-contained: it carries the affected ids, the actor and a
// server timestamp, so a client can apply or discard it idempotently and
// re-fetch if it suspects a missed event.

// ItemEvent carries a full item snapshot for add/update/purchase events.
type ItemEvent struct {
	ListID    uuid.UUID        `json:"listId"`
	ActorID   uuid.UUID        `json:"actorId"`
	Item      *domain.ListItem `json:"item"`
	Timestamp time.Time        `json:"timestamp"`
}

// ItemDeletedEvent carries only the id; the item no longer exists for clients.
type ItemDeletedEvent struct {
	ListID    uuid.UUID `json:"listId"`
	ItemID    uuid.UUID `json:"itemId"`
	ActorID   uuid.UUID `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemsReorderedEvent carries the full position set of one reorder call, never
// a partial slice of it.
type ItemsReorderedEvent struct {
	ListID    uuid.UUID                 `json:"listId"`
	ActorID   uuid.UUID                 `json:"actorId"`
	Items     []repository.ItemPosition `json:"items"`
	Timestamp time.Time                 `json:"timestamp"`
}

// ListEvent carries a full list snapshot for create/update events.
type ListEvent struct {
	ListID    uuid.UUID    `json:"listId"`
	ActorID   uuid.UUID    `json:"actorId"`
	List      *domain.List `json:"list"`
	Timestamp time.Time    `json:"timestamp"`
}

// ListDeletedEvent announces a soft-deleted list.
type ListDeletedEvent struct {
	ListID    uuid.UUID `json:"listId"`
	ActorID   uuid.UUID `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

// ListArchivedEvent announces both archive and unarchive.
type ListArchivedEvent struct {
	ListID     uuid.UUID  `json:"listId"`
	ActorID    uuid.UUID  `json:"actorId"`
	IsArchived bool       `json:"isArchived"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// CollaboratorEvent covers added/removed/role-changed; Role is empty on remove.
type CollaboratorEvent struct {
	ListID    uuid.UUID `json:"listId"`
	UserID    uuid.UUID `json:"userId"`
	ActorID   uuid.UUID `json:"actorId"`
	Role      string    `json:"role,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProfileUpdatedEvent lets clients refresh cached display names.
type ProfileUpdatedEvent struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName"`
	Timestamp   time.Time `json:"timestamp"`
}

// PresenceEvent covers UserJoined, UserLeft and PresenceUpdate.
type PresenceEvent struct {
	ListID    uuid.UUID `json:"listId"`
	UserID    uuid.UUID `json:"userId"`
	IsActive  bool      `json:"isActive"`
	Timestamp time.Time `json:"timestamp"`
}
