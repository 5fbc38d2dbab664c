package politeness

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newRobotsServer serves the given robots.txt body and a trivial page
// for every other path.
func newRobotsServer(t *testing.T, robots string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestGateAuthorize tests robots rule enforcement.
func TestGateAuthorize(t *testing.T) {
	t.Parallel()

	t.Run("denies disallowed path", func(t *testing.T) {
		t.Parallel()

		server := newRobotsServer(t, "User-agent: *\nDisallow: /faculty\n")
		gate := NewGate("facultyscan-test/1.0", WithDefaultDelay(0))

		_, err := gate.Authorize(context.Background(), server.URL+"/faculty?page=0")
		if !errors.Is(err, ErrDisallowed) {
			t.Fatalf("expected ErrDisallowed, got %v", err)
		}
	})

	t.Run("allows unrelated path", func(t *testing.T) {
		t.Parallel()

		server := newRobotsServer(t, "User-agent: *\nDisallow: /faculty\n")
		gate := NewGate("facultyscan-test/1.0", WithDefaultDelay(0))

		if _, err := gate.Authorize(context.Background(), server.URL+"/staff"); err != nil {
			t.Fatalf("expected allow, got %v", err)
		}
	})

	t.Run("missing robots.txt is implicit allow", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(server.Close)
		gate := NewGate("facultyscan-test/1.0", WithDefaultDelay(0))

		if _, err := gate.Authorize(context.Background(), server.URL+"/faculty"); err != nil {
			t.Fatalf("expected implicit allow, got %v", err)
		}
	})

	t.Run("unreachable host is implicit allow", func(t *testing.T) {
		t.Parallel()

		// Port is refused: the robots fetch fails, so the gate must
		// fall back to allow-all rather than denying the URL.
		gate := NewGate("facultyscan-test/1.0",
			WithDefaultDelay(0),
			WithHTTPClient(&http.Client{Timeout: 500 * time.Millisecond}),
		)

		if _, err := gate.Authorize(context.Background(), "http://127.0.0.1:1/faculty"); err != nil {
			t.Fatalf("expected implicit allow, got %v", err)
		}
	})

	t.Run("rule scoped to our user agent", func(t *testing.T) {
		t.Parallel()

		server := newRobotsServer(t, "User-agent: facultyscan\nDisallow: /private\n\nUser-agent: *\nDisallow:\n")
		gate := NewGate("facultyscan/1.0 (+https://github.com/facultyscan/facultyscan)", WithDefaultDelay(0))

		_, err := gate.Authorize(context.Background(), server.URL+"/private/page")
		if !errors.Is(err, ErrDisallowed) {
			t.Fatalf("expected ErrDisallowed for our agent group, got %v", err)
		}
	})
}

// TestGateSpacing tests that consecutive authorizations to one host
// accumulate a wait while the first request goes straight through.
func TestGateSpacing(t *testing.T) {
	t.Parallel()

	server := newRobotsServer(t, "User-agent: *\nCrawl-delay: 1\n")
	gate := NewGate("facultyscan-test/1.0", WithDefaultDelay(100*time.Millisecond))

	first, err := gate.Authorize(context.Background(), server.URL+"/a")
	if err != nil {
		t.Fatalf("first authorize failed: %v", err)
	}
	if first > 50*time.Millisecond {
		t.Errorf("first request should be immediate, got wait %v", first)
	}

	second, err := gate.Authorize(context.Background(), server.URL+"/b")
	if err != nil {
		t.Fatalf("second authorize failed: %v", err)
	}
	// Crawl-delay: 1 overrides the shorter default.
	if second < 500*time.Millisecond {
		t.Errorf("second request should wait close to the crawl delay, got %v", second)
	}
}

// TestGateAllowed tests the reservation-free preflight check.
func TestGateAllowed(t *testing.T) {
	t.Parallel()

	server := newRobotsServer(t, "User-agent: *\nDisallow: /faculty\nCrawl-delay: 5\n")
	gate := NewGate("facultyscan-test/1.0")

	if err := gate.Allowed(context.Background(), server.URL+"/faculty"); !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}
	if err := gate.Allowed(context.Background(), server.URL+"/staff"); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}

	// Preflight must not consume the request slot: the first real
	// authorization should still be immediate.
	wait, err := gate.Authorize(context.Background(), server.URL+"/staff")
	if err != nil {
		t.Fatalf("authorize after preflight failed: %v", err)
	}
	if wait > 50*time.Millisecond {
		t.Errorf("preflight consumed the first slot, wait = %v", wait)
	}
}
