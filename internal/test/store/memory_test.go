package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medinote-backend/internal/store"
)

func TestMemoryStore_AddAndGet(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.Add(ctx, store.Patients, map[string]any{"name": "Jordan", "userId": "u1"})
	require.NoError(t, err)
	id, ok := created["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, created["createdAt"])
	assert.NotEmpty(t, created["updatedAt"])

	got, err := s.Get(ctx, store.Patients, id)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", got["name"])
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.Get(context.Background(), store.Patients, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListFilters(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for _, userID := range []string{"u1", "u1", "u2"} {
		_, err := s.Add(ctx, store.Sessions, map[string]any{"userId": userID})
		require.NoError(t, err)
	}

	mine, err := s.List(ctx, store.Sessions, store.Filter{Field: "userId", Value: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := s.List(ctx, store.Sessions)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.List(ctx, store.Sessions, store.Filter{Field: "userId", Value: "u3"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_Update(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.Add(ctx, store.Sessions, map[string]any{"status": "in_progress"})
	require.NoError(t, err)
	id := created["id"].(string)

	require.NoError(t, s.Update(ctx, store.Sessions, id, map[string]any{"status": "completed"}))

	got, err := s.Get(ctx, store.Sessions, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", got["status"])

	assert.ErrorIs(t, s.Update(ctx, store.Sessions, "missing", map[string]any{}), store.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.Add(ctx, store.Templates, map[string]any{"title": "SOAP"})
	require.NoError(t, err)
	id := created["id"].(string)

	require.NoError(t, s.Delete(ctx, store.Templates, id))
	_, err = s.Get(ctx, store.Templates, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, store.Templates, id), store.ErrNotFound)
}

func TestMemoryStore_IncrementConcurrent(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.Add(ctx, store.Sessions, map[string]any{"chunksUploaded": 0})
	require.NoError(t, err)
	id := created["id"].(string)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Increment(ctx, store.Sessions, id, "chunksUploaded", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, store.Sessions, id)
	require.NoError(t, err)
	assert.EqualValues(t, 100, store.AsInt64(got["chunksUploaded"]))
}

func TestMemoryStore_IncrementMissingField(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.Add(ctx, store.Sessions, map[string]any{})
	require.NoError(t, err)
	id := created["id"].(string)

	value, err := s.Increment(ctx, store.Sessions, id, "chunksUploaded", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, value)

	_, err = s.Increment(ctx, store.Sessions, "missing", "chunksUploaded", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
