package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "value")

	if got := c.Get("k"); got != "value" {
		t.Errorf("Get(k) = %v, want value", got)
	}
	if got := c.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	c := NewWithClock(5*time.Minute, func() time.Time { return now })

	c.Set("k", 42)
	if got := c.Get("k"); got != 42 {
		t.Fatalf("Get before expiry = %v, want 42", got)
	}

	now = now.Add(5*time.Minute + time.Second)
	if got := c.Get("k"); got != nil {
		t.Errorf("Get after expiry = %v, want nil", got)
	}

	// Expired entries are evicted, not just hidden.
	if size, _ := c.Stats(); size != 0 {
		t.Errorf("size after expiry read = %d, want 0", size)
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 1)

	if !c.Delete("k") {
		t.Error("Delete(k) = false, want true")
	}
	if c.Delete("k") {
		t.Error("second Delete(k) = true, want false")
	}
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set(ChannelVideosKey("UC1"), 1)
	c.Set(ChannelVideosPageKey("UC1", "tok"), 2)
	c.Set(ChannelVideosKey("UC2"), 3)

	if n := c.DeleteByPrefix("channel:videos:UC1"); n != 2 {
		t.Errorf("DeleteByPrefix = %d, want 2", n)
	}
	if got := c.Get(ChannelVideosKey("UC2")); got != 3 {
		t.Errorf("unrelated key lost: %v", got)
	}
}

func TestCache_Deduped(t *testing.T) {
	c := New(time.Minute)

	var mu sync.Mutex
	calls := 0
	started := make(chan struct{})
	release := make(chan struct{})

	fn := func() (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return "result", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Deduped("key", func() (any, error) {
				if i == 0 {
					return fn()
				}
				// The second caller's fn must never run.
				mu.Lock()
				calls++
				mu.Unlock()
				return "second", nil
			})
			if err != nil {
				t.Errorf("Deduped: %v", err)
			}
			results[i] = v
		}(i)
		if i == 0 {
			<-started
		}
	}
	// Give the second goroutine time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (concurrent callers collapsed)", calls)
	}
	if results[0] != "result" || results[1] != "result" {
		t.Errorf("results = %v, want both to share the first result", results)
	}
}

func TestCache_DedupedErrorPassthrough(t *testing.T) {
	c := New(time.Minute)
	wantErr := errors.New("boom")

	_, err := c.Deduped("key", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
