package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntriesAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStoreWithClock(time.Minute, clock)
	store.Set(context.Background(), "league:list", "v1")

	clock.Advance(30 * time.Second)
	if _, ok := store.Get(context.Background(), "league:list"); !ok {
		t.Fatalf("expected entry before ttl")
	}

	clock.Advance(31 * time.Second)
	if _, ok := store.Get(context.Background(), "league:list"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry was not evicted")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "league:list", 1)
	store.Set(ctx, "league:id:a", 2)
	store.Set(ctx, "city:list", 3)

	store.DeletePrefix(ctx, "league:")

	if _, ok := store.Get(ctx, "league:id:a"); ok {
		t.Fatalf("expected league key to be removed")
	}
	if _, ok := store.Get(ctx, "city:list"); !ok {
		t.Fatalf("expected city key to be kept")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("unexpected second load result %v, %v", v, err)
	}
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	loader := func(context.Context) (any, error) { return "austin", nil }

	if _, err := store.GetOrLoad(ctx, "city:slug:austin", loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := store.GetOrLoad(ctx, "city:slug:austin", loader); err != nil {
		t.Fatalf("second load: %v", err)
	}

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Loads != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLoad_Typed(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()

	got, err := Load(ctx, store, "league:list", func(context.Context) ([]string, error) {
		return []string{"austin-spring-singles-2026"}, nil
	})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected load result %v, %v", got, err)
	}

	store.Set(ctx, "league:count", "not an int")
	count, err := Load(ctx, store, "league:count", func(context.Context) (int, error) { return 4, nil })
	if err != nil || count != 4 {
		t.Fatalf("expected mistyped entry to reload, got %v, %v", count, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
