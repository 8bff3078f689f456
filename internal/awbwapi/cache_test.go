package awbwapi

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "awbw.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, 7, []byte(tinyMap)))
	body, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tinyMap, string(body))

	require.NoError(t, c.Put(ctx, 7, []byte(`{"replaced":true}`)))
	body, _, err = c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, `{"replaced":true}`, string(body))
}

func TestCache_Expiry(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, 1, []byte("a")))
	now = now.Add(30 * time.Minute)
	require.NoError(t, c.Put(ctx, 2, []byte("b")))

	now = now.Add(45 * time.Minute)
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "entry 1 is 75 minutes old")
	_, ok, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenCache_Validation(t *testing.T) {
	_, err := OpenCache("", time.Hour)
	assert.Error(t, err)
	_, err = OpenCache(filepath.Join(t.TempDir(), "x.db"), 0)
	assert.Error(t, err)
}

func TestCachingFetcher(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	calls := map[int]int{}
	next := awbw.FetcherFunc(func(ctx context.Context, id int) ([]byte, error) {
		calls[id]++
		if id == 404 {
			return []byte(`{"err":true,"message":"No map"}`), nil
		}
		return []byte(tinyMap), nil
	})
	f := NewCachingFetcher(next, cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := awbw.DecodeFromID(ctx, f, 10)
		require.NoError(t, err)
		assert.Equal(t, "Tiny", m.Title)
	}
	assert.Equal(t, 1, calls[10])

	for i := 0; i < 2; i++ {
		_, err := awbw.DecodeFromID(ctx, f, 404)
		assert.True(t, awbw.IsNotFound(err))
	}
	assert.Equal(t, 2, calls[404], "error responses are not cached")
}

func TestCachingFetcher_SkipsUndecodableBodies(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	bodies := map[int]string{
		1: `<html>maintenance</html>`,
		2: `{"Size X": 1}`,
		3: `{"Size X": 1, "Size Y": -1, "Terrain Map": [[1]]}`,
	}
	calls := map[int]int{}
	next := awbw.FetcherFunc(func(ctx context.Context, id int) ([]byte, error) {
		calls[id]++
		return []byte(bodies[id]), nil
	})
	f := NewCachingFetcher(next, cache)
	ctx := context.Background()

	for id, want := range bodies {
		for i := 0; i < 2; i++ {
			body, err := f.FetchMap(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, want, string(body))
		}
		assert.Equal(t, 2, calls[id], "body %d is fetched every time", id)

		_, ok, err := cache.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}
