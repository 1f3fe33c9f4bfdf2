package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/sleep-social/internal/cache"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
)

type mockFollowRepo struct {
	mock.Mock
	repository.FollowRepository
}

func (m *mockFollowRepo) ListFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]string), args.Error(1)
}

type mockRecordRepo struct {
	mock.Mock
	repository.SleepRecordRepository
}

func (m *mockRecordRepo) ListCompletedSince(ctx context.Context, ids []string, since, until time.Time) ([]repository.FeedRow, error) {
	args := m.Called(ctx, ids, since, until)
	return args.Get(0).([]repository.FeedRow), args.Error(1)
}

var feedNow = time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)

func fixedClock() Option { return WithClock(func() time.Time { return feedNow }) }

func TestFeed_NoFollowsSkipsSessionQuery(t *testing.T) {
	follows := new(mockFollowRepo)
	records := new(mockRecordRepo)
	follows.On("ListFollowingIDs", mock.Anything, "alice").Return([]string{}, nil)

	svc := NewFeedService(follows, records, nil, fixedClock())
	got, err := svc.FollowingFeed(context.Background(), &model.User{ID: "alice"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	follows.AssertExpectations(t)
	records.AssertNotCalled(t, "ListCompletedSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeed_QueriesTrailingWeek(t *testing.T) {
	follows := new(mockFollowRepo)
	records := new(mockRecordRepo)
	follows.On("ListFollowingIDs", mock.Anything, "alice").Return([]string{"bob"}, nil)
	records.On("ListCompletedSince", mock.Anything, []string{"bob"}, feedNow.Add(-7*24*time.Hour), feedNow).
		Return([]repository.FeedRow{}, nil)

	_, err := NewFeedService(follows, records, nil, fixedClock()).
		FollowingFeed(context.Background(), &model.User{ID: "alice"})
	require.NoError(t, err)
	records.AssertExpectations(t)
}

func TestFeed_FollowedUsersOrderedByDuration(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "Alice", "alice@example.com")
	bob := env.user(t, "Bob", "bob@example.com")
	charlie := env.user(t, "Charlie", "charlie@example.com")
	dave := env.user(t, "Dave", "dave@example.com")
	env.follow(t, alice, bob)
	env.follow(t, alice, charlie)

	env.completed(t, charlie, feedNow, 48*time.Hour, 6*time.Hour)
	env.completed(t, bob, feedNow, 24*time.Hour, 8*time.Hour)
	// outside the window
	env.completed(t, bob, feedNow, 8*24*time.Hour, 10*time.Hour)
	// in progress
	env.open(t, charlie, feedNow.Add(-time.Hour))
	// not followed
	env.completed(t, dave, feedNow, 24*time.Hour, 9*time.Hour)

	svc := NewFeedService(env.follows, env.records, nil, fixedClock())
	got, err := svc.FollowingFeed(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Bob", got[0].UserName)
	assert.Equal(t, int64(8*3600), got[0].DurationSeconds)
	assert.InDelta(t, 8.0, got[0].DurationHours, 1e-9)
	assert.Equal(t, "Charlie", got[1].UserName)
	assert.Equal(t, int64(6*3600), got[1].DurationSeconds)
}

func TestFeed_EqualDurationsKeepCreationOrder(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "Alice", "alice@example.com")
	bob := env.user(t, "Bob", "bob@example.com")
	charlie := env.user(t, "Charlie", "charlie@example.com")
	env.follow(t, alice, bob)
	env.follow(t, alice, charlie)

	env.completed(t, charlie, feedNow, 72*time.Hour, 7*time.Hour)
	env.completed(t, bob, feedNow, 24*time.Hour, 7*time.Hour)

	got, err := NewFeedService(env.follows, env.records, nil, fixedClock()).
		FollowingFeed(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Charlie", got[0].UserName)
	assert.Equal(t, "Bob", got[1].UserName)
}

func TestFeed_MemoizedPerActorAndDay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	memo := cache.NewMemo[[]FeedEntry](client, "sleep:feed", time.Minute)

	follows := new(mockFollowRepo)
	records := new(mockRecordRepo)
	follows.On("ListFollowingIDs", mock.Anything, "alice").Return([]string{"bob"}, nil)
	records.On("ListCompletedSince", mock.Anything, []string{"bob"}, mock.Anything, mock.Anything).
		Return([]repository.FeedRow{{
			ID: "r1", UserID: "bob", UserName: "Bob",
			ClockIn: feedNow.Add(-10 * time.Hour), ClockOut: feedNow.Add(-2 * time.Hour),
			CreatedAt: feedNow.Add(-10 * time.Hour),
		}}, nil)

	svc := NewFeedService(follows, records, memo, fixedClock())
	for i := 0; i < 3; i++ {
		got, err := svc.FollowingFeed(context.Background(), &model.User{ID: "alice"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(8*3600), got[0].DurationSeconds)
	}

	records.AssertNumberOfCalls(t, "ListCompletedSince", 1)
	assert.True(t, mr.Exists("sleep:feed:alice:2025-08-08"))
	assert.Equal(t, int64(2), memo.Stats().Hits)
}
