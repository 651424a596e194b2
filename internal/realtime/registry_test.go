package realtime_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkSlalom/ae-infinity-api/internal/realtime"
)

func TestRegistry_ConnectionLifecycle(t *testing.T) {
	reg := realtime.NewRegistry()
	user := uuid.New()

	reg.AddConnection(user, "conn-1")
	reg.AddConnection(user, "conn-2")
	assert.ElementsMatch(t, []string{"conn-1", "conn-2"}, reg.Connections(user))

	reg.RemoveConnection(user, "conn-1")
	assert.Equal(t, []string{"conn-2"}, reg.Connections(user))

	// Dropping the last connection must leave no residual entry.
	reg.RemoveConnection(user, "conn-2")
	assert.Empty(t, reg.Connections(user))

	// Removing an unknown connection is a no-op.
	reg.RemoveConnection(user, "conn-404")
	assert.Empty(t, reg.Connections(user))
}

func TestRegistry_JoinAndLeaveList(t *testing.T) {
	reg := realtime.NewRegistry()
	alice, bob := uuid.New(), uuid.New()
	list := uuid.New()

	reg.JoinList(alice, list)
	reg.JoinList(bob, list)

	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, reg.Viewers(list))
	assert.Equal(t, []uuid.UUID{list}, reg.Lists(alice))
	assert.True(t, reg.IsActive(alice, list), "joining defaults presence to active")

	reg.LeaveList(alice, list)
	assert.Equal(t, []uuid.UUID{bob}, reg.Viewers(list))
	assert.Empty(t, reg.Lists(alice))
	assert.False(t, reg.IsActive(alice, list))
}

func TestRegistry_LeaveAllLists(t *testing.T) {
	reg := realtime.NewRegistry()
	user := uuid.New()
	listA, listB := uuid.New(), uuid.New()

	reg.JoinList(user, listA)
	reg.JoinList(user, listB)

	left := reg.LeaveAllLists(user)
	assert.ElementsMatch(t, []uuid.UUID{listA, listB}, left)

	// Both indexes must agree after the composite removal.
	assert.Empty(t, reg.Lists(user))
	assert.Empty(t, reg.Viewers(listA))
	assert.Empty(t, reg.Viewers(listB))
	assert.False(t, reg.IsActive(user, listA))

	assert.Nil(t, reg.LeaveAllLists(user), "second call finds nothing to leave")
}

func TestRegistry_SetPresence(t *testing.T) {
	reg := realtime.NewRegistry()
	user := uuid.New()
	list := uuid.New()

	// Presence updates for a non-viewer must not fabricate membership.
	reg.SetPresence(user, list, true)
	assert.False(t, reg.IsActive(user, list))
	assert.Empty(t, reg.Viewers(list))

	reg.JoinList(user, list)
	reg.SetPresence(user, list, false)
	assert.False(t, reg.IsActive(user, list))
	assert.Equal(t, []uuid.UUID{user}, reg.Viewers(list), "presence does not alter membership")

	reg.SetPresence(user, list, true)
	assert.True(t, reg.IsActive(user, list))
}

func TestRegistry_SnapshotsAreCopies(t *testing.T) {
	reg := realtime.NewRegistry()
	user := uuid.New()
	list := uuid.New()
	reg.JoinList(user, list)

	viewers := reg.Viewers(list)
	require.Len(t, viewers, 1)
	viewers[0] = uuid.New() // mutating the snapshot must not touch the registry

	assert.Equal(t, []uuid.UUID{user}, reg.Viewers(list))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := realtime.NewRegistry()
	list := uuid.New()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			user := uuid.New()
			connID := fmt.Sprintf("conn-%d", n)
			for j := 0; j < 100; j++ {
				reg.AddConnection(user, connID)
				reg.JoinList(user, list)
				reg.SetPresence(user, list, j%2 == 0)
				reg.Viewers(list)
				reg.Lists(user)
				reg.LeaveAllLists(user)
				reg.RemoveConnection(user, connID)
			}
		}(i)
	}
	wg.Wait()

	// Every worker fully unwound; no entries may remain.
	assert.Empty(t, reg.Viewers(list))
}
