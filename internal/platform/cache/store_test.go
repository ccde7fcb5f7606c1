package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "history", nil
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
			v, err := store.GetOrLoad(context.Background(), "player-attrs:history:30981", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "history" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_WarmHitSkipsLoader(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "team-attrs:history:9825", loader); err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_KeysLoadIndependently(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	for id := 0; id < 3; id++ {
		key := "player-attrs:history:" + strconv.Itoa(1000+id)
		v, err := store.GetOrLoad(context.Background(), key, func(context.Context) (any, error) {
			loads.Add(1)
			return id, nil
		})
		if err != nil {
			t.Fatalf("GetOrLoad %s: %v", key, err)
		}
		if got, _ := v.(int); got != id {
			t.Fatalf("key %s returned %v, want %d", key, v, id)
		}
	}

	if got := loads.Load(); got != 3 {
		t.Fatalf("loader ran %d times, want 3", got)
	}
}

func TestStore_GetOrLoad_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("connection refused")
	var loads atomic.Int32

	failing := func(context.Context) (any, error) {
		loads.Add(1)
		return nil, boom
	}
	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	// The next attempt retries instead of serving the failure.
	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		loads.Add(1)
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got, _ := v.(string); got != "recovered" {
		t.Fatalf("unexpected retried value: %v", v)
	}
	if got := loads.Load(); got != 2 {
		t.Fatalf("loader ran %d times, want 2", got)
	}
}

func TestStore_EntriesAgeOut(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Set(context.Background(), "k", "stale")

	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "k", "pinned")

	time.Sleep(15 * time.Millisecond)

	v, ok := store.Get(context.Background(), "k")
	if !ok {
		t.Fatal("zero-TTL entry must survive")
	}
	if got, _ := v.(string); got != "pinned" {
		t.Fatalf("unexpected value: %v", v)
	}
}
