package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    5,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 5; i++ {
		if !rl.Allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    3,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 3; i++ {
		rl.Allow("test-ip")
	}

	if rl.Allow("test-ip") {
		t.Fatal("4th request should be blocked")
	}
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	// ip-a is exhausted
	if rl.Allow("ip-a") {
		t.Fatal("ip-a should be blocked")
	}

	// ip-b should still be allowed
	if !rl.Allow("ip-b") {
		t.Fatal("ip-b should be allowed (independent key)")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    1,
		Window: 50 * time.Millisecond,
		KeyFn:  KeyByIP,
	})

	if !rl.Allow("test-ip") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("test-ip") {
		t.Fatal("second request in the window should be blocked")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("test-ip") {
		t.Fatal("request after window reset should be allowed")
	}
}

func TestPreconfiguredLimits(t *testing.T) {
	tests := []struct {
		name string
		rl   *RateLimiter
		max  int
	}{
		{"video", NewVideoRateLimiter(), 100},
		{"export", NewExportRateLimiter(), 10},
		{"auth", NewAuthRateLimiter(), 10},
	}
	for _, tt := range tests {
		if tt.rl.config.Max != tt.max {
			t.Errorf("%s limiter max = %d, want %d", tt.name, tt.rl.config.Max, tt.max)
		}
	}
}
