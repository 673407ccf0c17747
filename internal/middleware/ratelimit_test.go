// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"testing"
	"time"
)

func TestLocalLimiterBurst(t *testing.T) {
	t.Parallel()

	l := newLocalLimiter()
	limit := PerMinute(60, 2)

	for i := range 2 {
		if res := l.allow("k", limit); res.Allowed != 1 {
			t.Fatalf("request %d denied inside burst", i+1)
		}
	}

	res := l.allow("k", limit)
	if res.Allowed != 0 {
		t.Fatal("request beyond burst allowed")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want positive", res.RetryAfter)
	}

	if other := l.allow("other", limit); other.Allowed != 1 {
		t.Error("keys share a bucket")
	}
}

func TestPerWindowDefaultsToMinute(t *testing.T) {
	t.Parallel()

	if got := PerWindow(10, 5, 0).Period; got != time.Minute {
		t.Errorf("period = %v, want 1m", got)
	}
	if got := PerWindow(10, 5, 30*time.Second).Period; got != 30*time.Second {
		t.Errorf("period = %v, want 30s", got)
	}
}
