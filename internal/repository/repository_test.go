package repository_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"swipe-match-backend/internal/config"
	"swipe-match-backend/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the behaviour every KVStore backend must share.
func exerciseKV(t *testing.T, kv repository.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "matches")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "matches", `{"version":1,"data":[]}`))
	v, found, err := kv.Get(ctx, "matches")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"version":1,"data":[]}`, v)

	require.NoError(t, kv.Set(ctx, "matches", "second"))
	v, _, err = kv.Get(ctx, "matches")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	require.NoError(t, kv.Delete(ctx, "matches"))
	_, found, err = kv.Get(ctx, "matches")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is not an error.
	require.NoError(t, kv.Delete(ctx, "matches"))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, repository.NewMemoryKV())
}

func TestSQLiteKV(t *testing.T) {
	kv, err := repository.NewSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}

func TestOpenKV(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := config.Default().Storage
		kv, closeFn, err := repository.OpenKV(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &repository.MemoryKV{}, kv)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Default().Storage
		cfg.Backend = "sqlite"
		cfg.SQLitePath = filepath.Join(t.TempDir(), "open.db")
		kv, closeFn, err := repository.OpenKV(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &repository.SQLiteKV{}, kv)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default().Storage
		cfg.Backend = "floppy"
		_, _, err := repository.OpenKV(ctx, cfg, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestInMemoryLikeRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryLikeRepository()

	added, err := repo.Add(ctx, "1", "2")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, "1", "2")
	require.NoError(t, err)
	assert.False(t, added, "the same directed edge is only recorded once")

	exists, err := repo.Exists(ctx, "1", "2")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "2", "1")
	require.NoError(t, err)
	assert.False(t, exists, "edges are directed")

	assert.Equal(t, "1->2", repository.LikeKey("1", "2"))
}

func TestInMemoryLikeRepository_ConcurrentAddIsLinearized(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryLikeRepository()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := repo.Add(ctx, "a", "b")
			if err == nil && added {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.Equal(t, 1, repo.Len())
}
