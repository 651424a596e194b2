package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which users hold live connections, which lists they are
// viewing and whether they are actively looking at each list. All state is
// process-local and rebuilt from nothing on restart; it is a best-effort cache,
// never a source of truth. Every method is safe to call from any goroutine
// without external locking, and every composite update appears atomic to
// readers.
type Registry interface {
	// AddConnection records a live connection for the user. A user may hold
	// any number of simultaneous connections (devices, tabs).
	AddConnection(userID uuid.UUID, connID string)

	// RemoveConnection drops one connection. When the user's last connection
	// goes, their entry is removed entirely; no empty set remains.
	RemoveConnection(userID uuid.UUID, connID string)

	// JoinList marks the user as viewing the list and sets presence active.
	JoinList(userID, listID uuid.UUID)

	// LeaveList removes the user from the list's viewer set and clears the
	// presence flag.
	LeaveList(userID, listID uuid.UUID)

	// LeaveAllLists atomically removes the user from every list they were
	// viewing and clears all their presence flags. It returns the lists left
	// so the caller can announce the departures. Used on full disconnect.
	LeaveAllLists(userID uuid.UUID) []uuid.UUID

	// SetPresence updates the activity flag only; membership is untouched. A
	// no-op when the user is not viewing the list.
	SetPresence(userID, listID uuid.UUID, active bool)

	// Connections returns a snapshot of the user's connection ids.
	Connections(userID uuid.UUID) []string

	// Lists returns a snapshot of the lists the user is viewing.
	Lists(userID uuid.UUID) []uuid.UUID

	// Viewers returns a snapshot of the users viewing the list.
	Viewers(listID uuid.UUID) []uuid.UUID

	// IsActive reports whether the user is actively viewing the list.
	IsActive(userID, listID uuid.UUID) bool
}

type presenceKey struct {
	userID uuid.UUID
	listID uuid.UUID
}

// registry keeps four denormalized indexes in sync under one mutex. The
// indexes must move together: adding to one without the symmetric update of
// its pair leaks an entry or leaves a phantom viewer, so every public method
// is a single atomic multi-index update.
type registry struct {
	mu sync.RWMutex

	userConns   map[uuid.UUID]map[string]struct{}
	userLists   map[uuid.UUID]map[uuid.UUID]struct{}
	listViewers map[uuid.UUID]map[uuid.UUID]struct{}
	presence    map[presenceKey]bool
}

// NewRegistry returns an empty in-memory registry. Each call returns an
// independent instance; nothing here is process-global.
func NewRegistry() Registry {
	return &registry{
		userConns:   make(map[uuid.UUID]map[string]struct{}),
		userLists:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
		listViewers: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		presence:    make(map[presenceKey]bool),
	}
}

func (r *registry) AddConnection(userID uuid.UUID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.userConns[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.userConns[userID] = conns
	}
	conns[connID] = struct{}{}
}

func (r *registry) RemoveConnection(userID uuid.UUID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.userConns[userID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.userConns, userID)
	}
}

func (r *registry) JoinList(userID, listID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, ok := r.userLists[userID]
	if !ok {
		lists = make(map[uuid.UUID]struct{})
		r.userLists[userID] = lists
	}
	lists[listID] = struct{}{}

	viewers, ok := r.listViewers[listID]
	if !ok {
		viewers = make(map[uuid.UUID]struct{})
		r.listViewers[listID] = viewers
	}
	viewers[userID] = struct{}{}

	// Joining defaults presence to active.
	r.presence[presenceKey{userID, listID}] = true
}

func (r *registry) LeaveList(userID, listID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveListLocked(userID, listID)
}

func (r *registry) leaveListLocked(userID, listID uuid.UUID) {
	if lists, ok := r.userLists[userID]; ok {
		delete(lists, listID)
		if len(lists) == 0 {
			delete(r.userLists, userID)
		}
	}
	if viewers, ok := r.listViewers[listID]; ok {
		delete(viewers, userID)
		if len(viewers) == 0 {
			delete(r.listViewers, listID)
		}
	}
	delete(r.presence, presenceKey{userID, listID})
}

func (r *registry) LeaveAllLists(userID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, ok := r.userLists[userID]
	if !ok {
		return nil
	}
	left := make([]uuid.UUID, 0, len(lists))
	for listID := range lists {
		left = append(left, listID)
	}
	for _, listID := range left {
		r.leaveListLocked(userID, listID)
	}
	return left
}

func (r *registry) SetPresence(userID, listID uuid.UUID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Only viewers carry a presence flag; a stray update must not resurrect a
	// membership that join/leave does not know about.
	if _, ok := r.presence[presenceKey{userID, listID}]; !ok {
		return
	}
	r.presence[presenceKey{userID, listID}] = active
}

func (r *registry) Connections(userID uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.userConns[userID]
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	return out
}

func (r *registry) Lists(userID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lists := r.userLists[userID]
	out := make([]uuid.UUID, 0, len(lists))
	for id := range lists {
		out = append(out, id)
	}
	return out
}

func (r *registry) Viewers(listID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	viewers := r.listViewers[listID]
	out := make([]uuid.UUID, 0, len(viewers))
	for id := range viewers {
		out = append(out, id)
	}
	return out
}

func (r *registry) IsActive(userID, listID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.presence[presenceKey{userID, listID}]
}
