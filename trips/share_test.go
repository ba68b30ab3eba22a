package trips

import "testing"

func TestShareCacheKey(t *testing.T) {
	// The public view read and the invalidation on update/delete must agree
	// on the key, or stale views outlive visibility changes.
	if got := shareCacheKey("abc-123"); got != "share:abc-123" {
		t.Errorf("cache key = %q", got)
	}
}

func TestShareLink(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://trips.example.com")
	if got := shareLink("abc-123"); got != "https://trips.example.com/trip/abc-123" {
		t.Errorf("share link = %q", got)
	}

	t.Setenv("PUBLIC_BASE_URL", "")
	if got := shareLink("abc-123"); got != "http://localhost:8080/trip/abc-123" {
		t.Errorf("default share link = %q", got)
	}
}
