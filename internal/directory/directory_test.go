package directory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, dir Directory) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := dir.Get(ctx, "co_"+uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		company := "co_" + uuid.NewString()
		require.NoError(t, dir.Set(ctx, company, "acct_1"))

		got, err := dir.Get(ctx, company)
		require.NoError(t, err)
		assert.Equal(t, "acct_1", got)
	})

	t.Run("SetIfAbsentNeverOverwrites", func(t *testing.T) {
		company := "co_" + uuid.NewString()

		stored, created, err := dir.SetIfAbsent(ctx, company, "acct_first")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "acct_first", stored)

		stored, created, err = dir.SetIfAbsent(ctx, company, "acct_second")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "acct_first", stored)

		got, err := dir.Get(ctx, company)
		require.NoError(t, err)
		assert.Equal(t, "acct_first", got)
	})

	t.Run("SetIfAbsentConcurrent", func(t *testing.T) {
		company := "co_" + uuid.NewString()
		const writers = 8

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
			seen    = map[string]bool{}
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				stored, created, err := dir.SetIfAbsent(ctx, company, uuid.NewString())
				assert.NoError(t, err)

				mu.Lock()
				defer mu.Unlock()
				if created {
					winners++
				}
				seen[stored] = true
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, winners)
		assert.Len(t, seen, 1)
	})

	t.Run("RejectsEmptyIDs", func(t *testing.T) {
		assert.Error(t, dir.Set(ctx, "", "acct_1"))
		assert.Error(t, dir.Set(ctx, "co_1", " "))
		_, _, err := dir.SetIfAbsent(ctx, "co_1", "")
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	runContract(t, NewMemory())
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), Options{Backend: "Memory"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "mongo"})
	assert.Error(t, err)
}

func TestFirebaseRejectsPathCharacters(t *testing.T) {
	store := NewFirebase(nil)

	for _, company := range []string{"co.1", "co/1", "co#1", "co$1", "co[1]"} {
		_, err := store.Get(context.Background(), company)
		assert.ErrorIs(t, err, errInvalidFirebaseKey, company)
	}
}
