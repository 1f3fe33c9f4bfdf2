package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/sleep-social/config"
)

type entry struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestMemo_CachesUntilTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	memo := NewMemo[[]entry](client, "feed", time.Hour)
	ctx := context.Background()

	var calls int
	load := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Name: "Bob", Hours: 8}}, nil
	}

	got, err := memo.GetOrLoad(ctx, "alice:2025-08-07", load)
	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "Bob", Hours: 8}}, got)

	got, err = memo.GetOrLoad(ctx, "alice:2025-08-07", load)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got[0].Name)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("feed:alice:2025-08-07"))

	mr.FastForward(time.Hour + time.Second)
	_, err = memo.GetOrLoad(ctx, "alice:2025-08-07", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	stats := memo.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Loads)
}

func TestMemo_SingleFlight(t *testing.T) {
	_, client := newMiniredis(t)
	memo := NewMemo[[]entry](client, "feed", time.Hour)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]entry, error) {
		calls.Add(1)
		<-release
		return []entry{{Name: "Charlie", Hours: 6}}, nil
	}

	const waiters = 16
	var wg sync.WaitGroup
	results := make([][]entry, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = memo.GetOrLoad(ctx, "k", load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		require.Len(t, r, 1)
		assert.Equal(t, "Charlie", r[0].Name)
	}
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	_, client := newMiniredis(t)
	memo := NewMemo[[]entry](client, "feed", time.Hour)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := memo.GetOrLoad(ctx, "k", func(context.Context) ([]entry, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := memo.GetOrLoad(ctx, "k", func(context.Context) ([]entry, error) { return []entry{{Name: "ok"}}, nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got[0].Name)
}

func TestMemo_DegradesWhenRedisDown(t *testing.T) {
	mr, client := newMiniredis(t)
	memo := NewMemo[[]entry](client, "feed", time.Hour)
	mr.Close()

	var calls int
	load := func(context.Context) ([]entry, error) { calls++; return []entry{}, nil }
	for i := 0; i < 2; i++ {
		_, err := memo.GetOrLoad(context.Background(), "k", load)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestMemo_Disabled(t *testing.T) {
	var nilMemo *Memo[[]entry]
	var calls int
	load := func(context.Context) ([]entry, error) { calls++; return nil, nil }
	_, _ = nilMemo.GetOrLoad(context.Background(), "k", load)
	_, _ = NewMemo[[]entry](nil, "feed", time.Hour).GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, 2, calls)
	assert.Equal(t, Stats{}, nilMemo.Stats())
}

func TestMemo_CancelledLeaderDoesNotFailWaiters(t *testing.T) {
	mr, client := newMiniredis(t)
	memo := NewMemo[[]entry](client, "sleep:feed", time.Hour)

	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) ([]entry, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []entry{{Name: "Bob", Hours: 8}}, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var leaderErr, waiterErr error
	var waiterGot []entry
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, leaderErr = memo.GetOrLoad(leaderCtx, "alice:2025-08-08", load)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		waiterGot, waiterErr = memo.GetOrLoad(context.Background(), "alice:2025-08-08", load)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(release)
	wg.Wait()

	assert.NoError(t, leaderErr)
	require.NoError(t, waiterErr)
	require.Len(t, waiterGot, 1)
	assert.Equal(t, "Bob", waiterGot[0].Name)
	assert.True(t, mr.Exists("sleep:feed:alice:2025-08-08"))
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient(config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(config.RedisConfig{Enabled: true, Addr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(config.RedisConfig{Enabled: true, Addr: addr})
	assert.Error(t, err)
}
