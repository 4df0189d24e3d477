package user

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partyline/internal/store"
)

func createTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewResolver(s), s
}

func TestResolve_CreatesUser(t *testing.T) {
	r, s := createTestResolver(t)
	ctx := context.Background()

	u, err := r.Resolve(ctx, Identity{ExternalID: 1001, Name: "Alice", Handle: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice", u.Handle)
	assert.Equal(t, int64(1001), u.ExternalID)

	stored, err := s.FindUserByExternalID(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, u.ID, stored.ID)
}

func TestResolve_ReturnsExisting(t *testing.T) {
	r, _ := createTestResolver(t)
	ctx := context.Background()
	id := Identity{ExternalID: 1001, Name: "Alice", Handle: "alice"}

	first, err := r.Resolve(ctx, id)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestResolve_RefreshesDriftedData(t *testing.T) {
	r, s := createTestResolver(t)
	ctx := context.Background()

	first, err := r.Resolve(ctx, Identity{ExternalID: 1001, Name: "Alice", Handle: "alice"})
	require.NoError(t, err)

	second, err := r.Resolve(ctx, Identity{ExternalID: 1001, Name: "Alicia", Handle: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alicia", second.Name)
	assert.Equal(t, "alicia", second.Handle)

	stored, err := s.FindUserByExternalID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.Name)
	assert.Equal(t, "alicia", stored.Handle)
}

func TestResolve_HandleCanBeDropped(t *testing.T) {
	r, _ := createTestResolver(t)
	ctx := context.Background()

	_, err := r.Resolve(ctx, Identity{ExternalID: 1001, Name: "Alice", Handle: "alice"})
	require.NoError(t, err)

	u, err := r.Resolve(ctx, Identity{ExternalID: 1001, Name: "Alice"})
	require.NoError(t, err)
	assert.Empty(t, u.Handle)
}

func TestResolve_Concurrent(t *testing.T) {
	r, _ := createTestResolver(t)
	ctx := context.Background()
	id := Identity{ExternalID: 1001, Name: "Alice", Handle: "alice"}

	const resolvers = 8
	ids := make([]int64, resolvers)
	var wg sync.WaitGroup
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := r.Resolve(ctx, id)
			assert.NoError(t, err)
			if u != nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < resolvers; i++ {
		assert.Equal(t, ids[0], ids[i], "all resolvers must agree on one record")
	}
}
