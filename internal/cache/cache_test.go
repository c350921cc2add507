package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := store.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected hit with %q, got %q (hit=%v)", "v", got, ok)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, ok := store.Get(context.Background(), "absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	_ = store.Set(ctx, "k", []byte("v"), 10*time.Minute)

	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	store.now = func() time.Time { return now.Add(11 * time.Minute) }
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("v"), time.Minute)
	_ = store.Remove(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after remove")
	}
}

func TestMemoryStoreConcurrentWriters(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "shared", []byte("x"), time.Minute)
			store.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	if got, ok := store.Get(ctx, "shared"); !ok || string(got) != "x" {
		t.Fatalf("expected last write to win, got %q (hit=%v)", got, ok)
	}
}

// fakeRedis implements RedisClient on a plain map, ignoring expiration.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	data, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(data))
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.([]byte)
	return redis.NewStatusCmd(ctx)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntCmd(ctx)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(newFakeRedis())
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := store.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected hit with %q, got %q (hit=%v)", "v", got, ok)
	}

	_ = store.Remove(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after remove")
	}
}

func TestRedisStoreErrorIsMiss(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	client.err = context.DeadlineExceeded
	store := NewRedisStore(client)

	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("redis error should surface as a cache miss")
	}
}
