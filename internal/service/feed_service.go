package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/d60-Lab/sleep-social/internal/cache"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
)

// FeedWindow is the trailing window of the following feed.
const FeedWindow = 7 * 24 * time.Hour

// FeedEntry 关注人的一条已完成睡眠记录
type FeedEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	ClockIn         time.Time `json:"clock_in"`
	ClockOut        time.Time `json:"clock_out"`
	DurationSeconds int64     `json:"duration_seconds"`
	DurationHours   float64   `json:"duration_hours"`
	CreatedAt       time.Time `json:"created_at"`
}

type FeedService interface {
	// FollowingFeed 关注人近 7 天已完成的睡眠记录，按时长降序
	FollowingFeed(ctx context.Context, actor *model.User) ([]FeedEntry, error)
}

type feedService struct {
	follows repository.FollowRepository
	records repository.SleepRecordRepository
	memo    *cache.Memo[[]FeedEntry]
	opts    options
}

// NewFeedService wires the feed query; memo may be nil to disable memoization.
func NewFeedService(follows repository.FollowRepository, records repository.SleepRecordRepository, memo *cache.Memo[[]FeedEntry], opts ...Option) FeedService {
	return &feedService{follows: follows, records: records, memo: memo, opts: buildOptions(opts)}
}

func (s *feedService) FollowingFeed(ctx context.Context, actor *model.User) ([]FeedEntry, error) {
	now := s.opts.now().UTC()
	key := actor.ID + ":" + now.Format("2006-01-02")
	return s.memo.GetOrLoad(ctx, key, func(ctx context.Context) ([]FeedEntry, error) {
		return s.load(ctx, actor.ID, now)
	})
}

func (s *feedService) load(ctx context.Context, actorID string, now time.Time) ([]FeedEntry, error) {
	ids, err := s.follows.ListFollowingIDs(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list following ids: %w", err)
	}
	if len(ids) == 0 {
		return []FeedEntry{}, nil
	}

	rows, err := s.records.ListCompletedSince(ctx, ids, now.Add(-FeedWindow), now)
	if err != nil {
		return nil, fmt.Errorf("list completed records: %w", err)
	}
	entries := make([]FeedEntry, len(rows))
	for i, r := range rows {
		secs := int64(r.ClockOut.Sub(r.ClockIn) / time.Second)
		entries[i] = FeedEntry{
			ID:              r.ID,
			UserID:          r.UserID,
			UserName:        r.UserName,
			ClockIn:         r.ClockIn,
			ClockOut:        r.ClockOut,
			DurationSeconds: secs,
			DurationHours:   float64(secs) / 3600.0,
			CreatedAt:       r.CreatedAt,
		}
	}
	// 行已按创建顺序返回，稳定排序保证时长相同的记录保持插入顺序
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DurationSeconds > entries[j].DurationSeconds
	})
	return entries, nil
}
