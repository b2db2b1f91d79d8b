package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmehdipour/points-claimer/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte(`[{"phone":"1"}]`)))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"phone":"1"}]`, string(got))

	require.NoError(t, s.Save(ctx, []byte(`[]`)))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	s := NewFileStore(path)

	_, err := s.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))

	exerciseStore(t, s)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(0)

	_, err := s.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))

	exerciseStore(t, s)
}

func TestMemoryStore_Expires(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	require.NoError(t, s.Save(context.Background(), []byte("x")))

	time.Sleep(40 * time.Millisecond)
	_, err := s.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_CopiesInput(t *testing.T) {
	s := NewMemoryStore(0)
	raw := []byte("abc")
	require.NoError(t, s.Save(context.Background(), raw))
	raw[0] = 'z'

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

// Needs a live server: CLAIMER_TEST_REDIS_ADDR=127.0.0.1:6379
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CLAIMER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLAIMER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb, err := db.NewRedisClient(ctx, db.RedisOpts{Addr: addr})
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	key := "claimer:test:" + t.Name()
	defer rdb.Del(ctx, key)

	s := NewRedisStore(rdb, key, time.Minute)
	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	exerciseStore(t, s)
}
