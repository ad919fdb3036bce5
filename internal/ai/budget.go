package ai

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnbharat/learnbharat-ai/internal/platform/cache"
)

// BudgetChecker tracks daily token usage per credential key.
type BudgetChecker interface {
	// Check reports whether key has budget remaining today.
	Check(ctx context.Context, key string) (bool, error)
	// Record adds tokens to today's usage for key.
	Record(ctx context.Context, key string, tokens int) error
	// Usage returns today's usage and the daily limit for key.
	Usage(ctx context.Context, key string) (used int64, limit int64, err error)
}

func dayStamp(t time.Time) string {
	return t.UTC().Format("20060102")
}

// InMemoryBudget is a single-process budget tracker. A limit of zero or less
// means unlimited.
type InMemoryBudget struct {
	mu    sync.Mutex
	limit int64
	day   string
	usage map[string]int64
	now   func() time.Time
}

// NewInMemoryBudget creates an in-memory tracker with a daily limit.
func NewInMemoryBudget(limit int64) *InMemoryBudget {
	return &InMemoryBudget{
		limit: limit,
		usage: make(map[string]int64),
		now:   time.Now,
	}
}

// rollover clears usage when the UTC day changes. Callers hold b.mu.
func (b *InMemoryBudget) rollover() {
	day := dayStamp(b.now())
	if day != b.day {
		b.day = day
		clear(b.usage)
	}
}

func (b *InMemoryBudget) Check(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()

	if b.limit <= 0 {
		return true, nil
	}
	return b.usage[key] < b.limit, nil
}

func (b *InMemoryBudget) Record(_ context.Context, key string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("tokens must be non-negative, got %d", tokens)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()

	b.usage[key] += int64(tokens)
	return nil
}

func (b *InMemoryBudget) Usage(_ context.Context, key string) (int64, int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()

	return b.usage[key], b.limit, nil
}

const redisBudgetTTL = 48 * time.Hour

// RedisBudget shares daily usage across processes through Redis counters.
type RedisBudget struct {
	client *redis.Client
	limit  int64
	now    func() time.Time
}

// NewRedisBudget creates a Redis-backed tracker with a daily limit.
func NewRedisBudget(client *redis.Client, limit int64) *RedisBudget {
	return &RedisBudget{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

func (b *RedisBudget) key(key string) string {
	return cache.Key("budget", key, dayStamp(b.now()))
}

func (b *RedisBudget) used(ctx context.Context, key string) (int64, error) {
	v, err := b.client.Get(ctx, b.key(key)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read budget: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse budget counter %q: %w", v, err)
	}
	return n, nil
}

func (b *RedisBudget) Check(ctx context.Context, key string) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	used, err := b.used(ctx, key)
	if err != nil {
		return false, err
	}
	return used < b.limit, nil
}

func (b *RedisBudget) Record(ctx context.Context, key string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("tokens must be non-negative, got %d", tokens)
	}

	k := b.key(key)
	pipe := b.client.TxPipeline()
	pipe.IncrBy(ctx, k, int64(tokens))
	pipe.Expire(ctx, k, redisBudgetTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record budget: %w", err)
	}
	return nil
}

func (b *RedisBudget) Usage(ctx context.Context, key string) (int64, int64, error) {
	used, err := b.used(ctx, key)
	if err != nil {
		return 0, 0, err
	}
	return used, b.limit, nil
}
