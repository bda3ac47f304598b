package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientTitleXML(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.Write([]byte("<DIV1/>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 0)
	data, err := c.TitleXML(context.Background(), "2024-07-01", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "<DIV1/>" {
		t.Errorf("unexpected body: %q", data)
	}
	if p := gotPath.Load(); p != "/api/versioner/v1/full/2024-07-01/title-2.xml" {
		t.Errorf("unexpected path: %v", p)
	}

	snap := c.Stats.Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", snap.Count)
	}
}

func TestClientNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such title", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 3)
	_, err := c.TitleXML(context.Background(), "2024-07-01", 99)
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("404 should not be retryable: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"agencies":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 2)
	data, err := c.Agencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"agencies":[]}` {
		t.Errorf("unexpected body: %q", data)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestClientRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1)
	_, err := c.TitlesSummary(context.Background())
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if !IsRetryable(err) {
		t.Errorf("expected a retryable error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
}
