package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return &Client{
		BaseURL: server.URL,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}, server
}

func TestReverseDisplayName(t *testing.T) {
	c, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Wayfarer/1.0" {
			t.Errorf("user agent = %q", got)
		}
		if got := r.URL.Query().Get("lat"); got != "48.8584" {
			t.Errorf("lat = %q", got)
		}
		fmt.Fprint(w, `{"display_name":"Tour Eiffel, Paris, France"}`)
	})
	defer server.Close()

	if got := c.Reverse(context.Background(), 48.8584, 2.2945); got != "Tour Eiffel, Paris, France" {
		t.Errorf("name = %q", got)
	}
}

func TestReverseServerErrorFallsBack(t *testing.T) {
	c, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	defer server.Close()

	if got := c.Reverse(context.Background(), 48.8584, 2.2945); got != "48.8584, 2.2945" {
		t.Errorf("fallback = %q, want formatted coordinates", got)
	}
}

func TestReverseBadJSONFallsBack(t *testing.T) {
	c, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	defer server.Close()

	if got := c.Reverse(context.Background(), 10, 20); got != "10.0000, 20.0000" {
		t.Errorf("fallback = %q", got)
	}
}

func TestReverseEmptyNameFallsBack(t *testing.T) {
	c, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"display_name":""}`)
	})
	defer server.Close()

	if got := c.Reverse(context.Background(), -33.8688, 151.2093); got != "-33.8688, 151.2093" {
		t.Errorf("fallback = %q", got)
	}
}

func TestReverseNetworkFailureFallsBack(t *testing.T) {
	c, server := testClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	if got := c.Reverse(context.Background(), 1.5, 2.5); got != "1.5000, 2.5000" {
		t.Errorf("fallback = %q", got)
	}
}
