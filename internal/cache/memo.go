// Package cache memoizes expensive reads in Redis with a TTL and single-flight
// population. Redis failures degrade to calling the loader directly.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/d60-Lab/sleep-social/pkg/logger"
)

// LoadFunc produces the value for a missing key.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Memo is a key -> JSON value cache. A nil *Memo or one without a client
// always calls the loader.
type Memo[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

// NewMemo builds a memo storing entries under "<prefix>:<key>" for ttl.
// The prefix names the whole keyspace (e.g. "sleep:feed"); callers pass
// only the entity part of the key.
func NewMemo[T any](client *redis.Client, prefix string, ttl time.Duration) *Memo[T] {
	return &Memo[T]{client: client, prefix: prefix, ttl: ttl}
}

func (m *Memo[T]) enabled() bool { return m != nil && m.client != nil && m.ttl > 0 }

func (m *Memo[T]) key(k string) string { return fmt.Sprintf("%s:%s", m.prefix, k) }

// GetOrLoad returns the cached value for key, or runs load once for all
// concurrent callers of the same key and caches the result.
func (m *Memo[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	if !m.enabled() {
		return load(ctx)
	}

	full := m.key(key)
	if v, ok := m.get(ctx, full); ok {
		m.hits.Add(1)
		return v, nil
	}
	m.misses.Add(1)

	// 加载结果由所有等待者共享，不能随首个调用方取消
	shared := context.WithoutCancel(ctx)
	res, err, _ := m.group.Do(full, func() (interface{}, error) {
		// 另一个调用方可能刚写入
		if v, ok := m.get(shared, full); ok {
			return v, nil
		}
		m.loads.Add(1)
		v, err := load(shared)
		if err != nil {
			return v, err
		}
		m.set(shared, full, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (m *Memo[T]) get(ctx context.Context, full string) (T, bool) {
	var out T
	data, err := m.client.Get(ctx, full).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache get failed", zap.String("key", full), zap.Error(err))
		}
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("cache decode failed", zap.String("key", full), zap.Error(err))
		return out, false
	}
	return out, true
}

func (m *Memo[T]) set(ctx context.Context, full string, v T) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache encode failed", zap.String("key", full), zap.Error(err))
		return
	}
	if err := m.client.Set(ctx, full, payload, m.ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", full), zap.Error(err))
	}
}

// Stats summarises cache traffic since construction.
type Stats struct {
	Hits   int64
	Misses int64
	Loads  int64
}

func (m *Memo[T]) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load(), Loads: m.loads.Load()}
}

// Counts reports the raw counters for metrics exporters.
func (m *Memo[T]) Counts() (hits, misses, loads int64) {
	s := m.Stats()
	return s.Hits, s.Misses, s.Loads
}
