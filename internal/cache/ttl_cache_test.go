package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTTL_GetOrLoad_CachesWithinTTL(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrLoad("tasks", load)
	if err != nil || v != 1 {
		t.Fatalf("expected first load to return 1, got v=%d err=%v", v, err)
	}
	v, err = c.GetOrLoad("tasks", load)
	if err != nil || v != 1 {
		t.Fatalf("expected cached value 1, got v=%d err=%v", v, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 loader call, got %d", calls)
	}
}

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[string, string](time.Second)

	// Freeze time via now indirection
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	_, _ = c.GetOrLoad("k", func() (string, error) { return "v1", nil })
	if v, ok := c.Get("k"); !ok || v != "v1" {
		t.Fatalf("expected hit before expiry")
	}

	base = base.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	v, _ := c.GetOrLoad("k", func() (string, error) { return "v2", nil })
	if v != "v2" {
		t.Fatalf("expected reload after expiry, got %q", v)
	}
}

func TestTTL_LoaderErrorNotCached(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	boom := errors.New("store down")

	if _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected nothing cached after error")
	}
}

func TestTTL_InvalidateAndDisabled(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	_, _ = c.GetOrLoad("k", func() (int, error) { return 1, nil })
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected key to be invalidated")
	}

	off := NewTTL[string, int](0)
	calls := 0
	for i := 0; i < 3; i++ {
		_, _ = off.GetOrLoad("k", func() (int, error) { calls++; return calls, nil })
	}
	if calls != 3 {
		t.Fatalf("expected every read to hit the loader when disabled, got %d", calls)
	}
}

func TestTTL_ConcurrentReaders(t *testing.T) {
	c := NewTTL[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < 100; r++ {
				_, _ = c.GetOrLoad(i%5, func() (int, error) { return i % 5, nil })
			}
		}()
	}
	wg.Wait()
	for k := 0; k < 5; k++ {
		if v, ok := c.Get(k); !ok || v != k {
			t.Fatalf("expected %d cached, got ok=%v v=%d", k, ok, v)
		}
	}
}
