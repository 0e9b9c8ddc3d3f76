package refcache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestCache(released *[]string) *Cache[string, int] {
	var mu sync.Mutex
	return New[string, int](StringHasher, func(key string, _ int) {
		mu.Lock()
		defer mu.Unlock()
		*released = append(*released, key)
	})
}

func TestAcquireSharesEntry(t *testing.T) {
	var released []string
	c := newTestCache(&released)
	loads := 0
	load := func() (int, error) {
		loads++
		return 42, nil
	}

	v1, err := c.Acquire("a.pag", load)
	if err != nil || v1 != 42 {
		t.Fatalf("Acquire() = %d, %v; want 42, nil", v1, err)
	}
	v2, err := c.Acquire("a.pag", load)
	if err != nil || v2 != 42 {
		t.Fatalf("second Acquire() = %d, %v; want 42, nil", v2, err)
	}

	if loads != 1 {
		t.Errorf("load called %d times, want 1", loads)
	}
	if got := c.Refs("a.pag"); got != 2 {
		t.Errorf("Refs() = %d, want 2", got)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 entry", st)
	}
}

func TestReleaseEvictsAtZero(t *testing.T) {
	var released []string
	c := newTestCache(&released)
	load := func() (int, error) { return 1, nil }

	_, _ = c.Acquire("a.pag", load)
	_, _ = c.Acquire("a.pag", load)

	if c.Release("a.pag") {
		t.Error("first Release() evicted, want entry kept")
	}
	if _, ok := c.Peek("a.pag"); !ok {
		t.Error("entry gone after first Release()")
	}
	if len(released) != 0 {
		t.Errorf("release func called early: %v", released)
	}

	if !c.Release("a.pag") {
		t.Error("last Release() did not evict")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if len(released) != 1 || released[0] != "a.pag" {
		t.Errorf("released = %v, want [a.pag]", released)
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", st.Evictions)
	}

	// Releasing again is a no-op.
	if c.Release("a.pag") {
		t.Error("Release() of absent key reported eviction")
	}
	if len(released) != 1 {
		t.Errorf("release func called again: %v", released)
	}
}

func TestAcquireLoadError(t *testing.T) {
	var released []string
	c := newTestCache(&released)
	errLoad := errors.New("boom")

	_, err := c.Acquire("bad.pag", func() (int, error) { return 0, errLoad })
	if !errors.Is(err, errLoad) {
		t.Fatalf("Acquire() error = %v, want %v", err, errLoad)
	}
	if c.Len() != 0 {
		t.Errorf("failed load left %d entries", c.Len())
	}

	// A later successful load is not affected by the failure.
	v, err := c.Acquire("bad.pag", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("Acquire() after failure = %d, %v; want 7, nil", v, err)
	}
}

func TestRetain(t *testing.T) {
	var released []string
	c := newTestCache(&released)

	if c.Retain("missing") {
		t.Error("Retain() on absent key = true")
	}

	_, _ = c.Acquire("a.pag", func() (int, error) { return 1, nil })
	if !c.Retain("a.pag") {
		t.Fatal("Retain() on live key = false")
	}
	c.Release("a.pag")
	if c.Refs("a.pag") != 1 {
		t.Errorf("Refs() = %d, want 1", c.Refs("a.pag"))
	}
	c.Release("a.pag")
	if len(released) != 1 {
		t.Errorf("released = %v, want one entry", released)
	}
}

func TestUintHasherKeys(t *testing.T) {
	var count atomic.Int32
	c := New[uintptr, string](UintHasher[uintptr], func(uintptr, string) { count.Add(1) })

	for i := uintptr(1); i <= 40; i++ {
		_, _ = c.Acquire(i, func() (string, error) { return "doc", nil })
	}
	if c.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", c.Len())
	}
	for i := uintptr(1); i <= 40; i++ {
		c.Release(i)
	}
	if count.Load() != 40 {
		t.Errorf("release func called %d times, want 40", count.Load())
	}
}

func TestConcurrentAcquireRelease(t *testing.T) {
	var loads atomic.Int32
	var evicted atomic.Int32
	c := New[string, int](StringHasher, func(string, int) { evicted.Add(1) })

	const workers = 32
	keys := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			key := keys[w%len(keys)]
			_, err := c.Acquire(key, func() (int, error) {
				loads.Add(1)
				return w, nil
			})
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
			}
		}(w)
	}
	wg.Wait()

	if got := int(loads.Load()); got != len(keys) {
		t.Errorf("loads = %d, want %d", got, len(keys))
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			c.Release(keys[w%len(keys)])
		}(w)
	}
	wg.Wait()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if got := int(evicted.Load()); got != len(keys) {
		t.Errorf("evictions = %d, want %d", got, len(keys))
	}
}
