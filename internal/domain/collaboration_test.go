package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkSlalom/ae-infinity-api/internal/domain"
)

func newPending(t *testing.T) *domain.Collaboration {
	t.Helper()
	c := domain.NewCollaboration(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.Equal(t, domain.StatusPending, c.Status())
	return c
}

func TestCollaboration_AcceptTransition(t *testing.T) {
	c := newPending(t)
	now := time.Now()

	err := c.Accept(now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, c.Status())
	assert.False(t, c.IsPending)
	require.NotNil(t, c.AcceptedAt)
	assert.WithinDuration(t, now, *c.AcceptedAt, time.Second)

	// Accepting twice is illegal.
	assert.ErrorIs(t, c.Accept(now), domain.ErrIllegalTransition)
}

func TestCollaboration_DeclineTransition(t *testing.T) {
	c := newPending(t)
	now := time.Now()

	err := c.Decline(now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, c.Status())
	require.NotNil(t, c.DeletedBy)
	assert.Equal(t, c.UserID, *c.DeletedBy)

	assert.ErrorIs(t, c.Decline(now), domain.ErrIllegalTransition)
	assert.ErrorIs(t, c.Accept(now), domain.ErrIllegalTransition)
}

func TestCollaboration_RemoveTransition(t *testing.T) {
	c := newPending(t)
	now := time.Now()
	owner := uuid.New()

	// Removing a pending row is illegal; the invitation must be declined.
	assert.ErrorIs(t, c.Remove(owner, now), domain.ErrIllegalTransition)

	require.NoError(t, c.Accept(now))
	require.NoError(t, c.Remove(owner, now))
	assert.Equal(t, domain.StatusRemoved, c.Status())
	require.NotNil(t, c.DeletedBy)
	assert.Equal(t, owner, *c.DeletedBy)

	assert.ErrorIs(t, c.Remove(owner, now), domain.ErrIllegalTransition)
}

// The pending and deleted flags must never assert together; a declined row
// clears IsPending when it soft-deletes.
func TestCollaboration_PendingAndDeletedNeverCoAssert(t *testing.T) {
	declined := newPending(t)
	require.NoError(t, declined.Decline(time.Now()))
	assert.False(t, declined.IsPending && declined.IsDeleted)

	removed := newPending(t)
	require.NoError(t, removed.Accept(time.Now()))
	require.NoError(t, removed.Remove(uuid.New(), time.Now()))
	assert.False(t, removed.IsPending && removed.IsDeleted)
}

func TestCollaborationStatus_String(t *testing.T) {
	assert.Equal(t, "pending", domain.StatusPending.String())
	assert.Equal(t, "active", domain.StatusActive.String())
	assert.Equal(t, "declined", domain.StatusDeclined.String())
	assert.Equal(t, "removed", domain.StatusRemoved.String())
}
