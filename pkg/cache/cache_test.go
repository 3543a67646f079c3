package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
)

func init() { retryDelay = time.Millisecond }

func testLayout() layout.Layout {
	return layout.Layout{Rows: []layout.Row{{
		ID: "r", ColumnLayout: "1-col",
		Columns: []layout.Column{{ID: "c", Modules: []layout.Module{{ID: "m", Type: "text"}}}},
	}}}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("svg"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Errorf("Get() = %q, %v, %v; want svg hit", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	_ = c.Set(ctx, "old", []byte("x"), time.Nanosecond)
	_ = c.Set(ctx, "new", []byte("y"), time.Hour)
	time.Sleep(time.Millisecond)

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "new"); !hit {
		t.Error("live entry should survive Prune")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "new"); hit {
		t.Error("Clear should remove every entry")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	l := testLayout()

	svg := k.RenderKey(l, RenderKeyOpts{Format: "svg"})
	dot := k.RenderKey(l, RenderKeyOpts{Format: "dot"})
	if svg == dot {
		t.Error("different formats should produce different keys")
	}
	again := k.RenderKey(l.Clone(), RenderKeyOpts{Format: "svg"})
	if svg != again {
		t.Error("equal layouts should produce equal keys")
	}

	l.Rows[0].Columns[0].Modules[0].Fields = layout.Fields{"content": "hi"}
	changed := k.RenderKey(l, RenderKeyOpts{Format: "svg"})
	if changed == svg {
		t.Error("changed layout should produce a new key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:")
	key := scoped.RenderKey(testLayout(), RenderKeyOpts{Format: "svg"})
	if key[:len("tenant:render:")] != "tenant:render:" {
		t.Errorf("RenderKey() = %q, want tenant:render: prefix", key)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errPermanent := errors.New("permanent")

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d; want permanent, 1", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retryable: err = %v, calls = %d; want nil, 2", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d; want unavailable, 3", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	c := NewRedisCacheWithClient(fake)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if !hit || err != nil || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v; want v hit", data, hit, err)
	}

	fake.fail = true
	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get() with failing backend = %v, want ErrUnavailable", err)
	}
	if fake.gets < 4 {
		t.Errorf("gets = %d, want retries", fake.gets)
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestFetch(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	computed := 0
	compute := func() ([]byte, error) {
		computed++
		return []byte("<svg/>"), nil
	}
	for i := 0; i < 2; i++ {
		data, err := Fetch(ctx, c, "k", "render", time.Hour, compute)
		if err != nil || string(data) != "<svg/>" {
			t.Fatalf("Fetch() = %q, %v", data, err)
		}
	}
	if computed != 1 {
		t.Errorf("computed = %d, want 1", computed)
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %d/%d/%d, want 1/1/1", hooks.hits, hooks.misses, hooks.sets)
	}

	boom := errors.New("boom")
	if _, err := Fetch(ctx, c, "other", "render", 0, func() ([]byte, error) { return nil, boom }); err != boom {
		t.Errorf("Fetch() error = %v, want boom", err)
	}
}

type fakeRedis struct {
	data map[string]string
	fail bool
	gets int
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.fail {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Close() error { return nil }
