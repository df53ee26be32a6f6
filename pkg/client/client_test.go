package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recorder struct {
	auth      string
	requestID string
	agent     string
}

func newServer(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.auth = r.Header.Get("Authorization")
		rec.requestID = r.Header.Get(RequestIDHeader)
		rec.agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestNewSetsBaseURLAndTimeout validates client construction
func TestNewSetsBaseURLAndTimeout(t *testing.T) {
	c := New(Options{BaseURL: "http://example.test/api", Timeout: 7 * time.Second}, nil)

	if c.BaseURL != "http://example.test/api" {
		t.Errorf("Expected base URL to be set, got %s", c.BaseURL)
	}
	if c.GetClient().Timeout != 7*time.Second {
		t.Errorf("Expected timeout 7s, got %v", c.GetClient().Timeout)
	}
	if c.RetryCount != 0 {
		t.Errorf("Expected no retries, got %d", c.RetryCount)
	}
}

// TestTokenReadPerRequest validates the bearer token follows the source
func TestTokenReadPerRequest(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)

	token := ""
	c := New(Options{BaseURL: srv.URL}, TokenFunc(func() string { return token }))

	if _, err := c.R().Get("/feed"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if rec.auth != "" {
		t.Errorf("Expected no Authorization header when logged out, got %q", rec.auth)
	}

	token = "tok-123"
	if _, err := c.R().Get("/feed"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if rec.auth != "Bearer tok-123" {
		t.Errorf("Expected bearer token, got %q", rec.auth)
	}

	token = ""
	if _, err := c.R().Get("/feed"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if rec.auth != "" {
		t.Errorf("Expected Authorization header to be dropped after logout, got %q", rec.auth)
	}
}

// TestRequestIDHeader validates a fresh request id is sent each time
func TestRequestIDHeader(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec)
	c := New(Options{BaseURL: srv.URL}, nil)

	if _, err := c.R().Get("/a"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	first := rec.requestID
	if _, err := c.R().Get("/b"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if first == "" || rec.requestID == "" {
		t.Fatal("Expected request id header")
	}
	if first == rec.requestID {
		t.Error("Request ids should differ between requests")
	}
	if rec.agent != userAgent {
		t.Errorf("Expected user agent %s, got %s", userAgent, rec.agent)
	}
}
