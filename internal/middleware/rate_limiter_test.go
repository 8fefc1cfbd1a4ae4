package middleware

import (
	"testing"
	"time"
)

func TestKeyedRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Hour, 2, time.Hour)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first request should pass")
	}
	if !limiter.Allow("1.2.3.4") {
		t.Fatal("second request should pass within burst")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("third request should be limited")
	}
}

func TestKeyedRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Hour, 1, time.Hour)

	if !limiter.Allow("login:1.1.1.1") {
		t.Fatal("first key should pass")
	}
	if !limiter.Allow("login:2.2.2.2") {
		t.Fatal("second key should pass independently")
	}
	if limiter.Allow("login:1.1.1.1") {
		t.Fatal("first key should now be limited")
	}
}

func TestKeyedRateLimiterExpiresIdleClients(t *testing.T) {
	l := NewKeyedRateLimiter(1, time.Hour, 1, time.Minute).(*keyedRateLimiter)

	base := time.Now()
	l.now = func() time.Time { return base }

	if !l.Allow("9.9.9.9") {
		t.Fatal("first request should pass")
	}

	l.now = func() time.Time { return base.Add(2 * time.Minute) }

	// Touching a different key garbage collects the idle one.
	l.Allow("other")

	l.mu.Lock()
	_, ok := l.clients["9.9.9.9"]
	l.mu.Unlock()
	if ok {
		t.Fatal("idle client should have been evicted")
	}
}
