package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enqueueUser(t *testing.T, s *Store, partyID, userID int64, at time.Time) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Enqueue(ctx, partyID, QueueEntry{UserID: userID, AddedAt: at}))
	require.NoError(t, tx.Commit())
}

func readQueueIDs(t *testing.T, s *Store, partyID int64) []int64 {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	entries, err := tx.ReadQueue(ctx, partyID, false)
	require.NoError(t, err)
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	return ids
}

func TestQueue_FIFOOrder(t *testing.T) {
	s := createTestStore(t)
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, userID := range []int64{10, 20, 30} {
		enqueueUser(t, s, partyID, userID, base.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, []int64{10, 20, 30}, readQueueIDs(t, s, partyID))
}

func TestQueue_AddedAtRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	at := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)
	enqueueUser(t, s, partyID, 42, at)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	entries, err := tx.ReadQueue(ctx, partyID, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].AddedAt.Equal(at), "AddedAt = %v, want %v", entries[0].AddedAt, at)
}

func TestQueue_DequeueHead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	enqueueUser(t, s, partyID, 10, base)
	enqueueUser(t, s, partyID, 20, base.Add(time.Second))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	removed, err := tx.DequeueAt(ctx, partyID, 0)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []int64{20}, readQueueIDs(t, s, partyID))
}

func TestQueue_DequeueMiddlePreservesOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, userID := range []int64{10, 20, 30} {
		enqueueUser(t, s, partyID, userID, base.Add(time.Duration(i)*time.Second))
	}

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	removed, err := tx.DequeueAt(ctx, partyID, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []int64{10, 30}, readQueueIDs(t, s, partyID))
}

func TestQueue_DequeueOutOfRange(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	removed, err := tx.DequeueAt(ctx, partyID, 0)
	require.NoError(t, err)
	assert.False(t, removed, "empty queue has nothing to remove")
}

func TestReadQueue_PartyNotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = tx.ReadQueue(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestReadQueue_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "Owner", 1)
	partyID := createTestParty(t, s, owner, 1)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	entries, err := tx.ReadQueue(ctx, partyID, false)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
