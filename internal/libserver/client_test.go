package libserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recut/internal/services"
	"recut/internal/testsupport"
)

func TestRefreshHitsSectionEndpoint(t *testing.T) {
	var gotSection string
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSection = r.URL.Query().Get("section")
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.LibraryServer.Enabled = true
	cfg.LibraryServer.URL = server.URL + "/library/refresh"
	cfg.LibraryServer.Section = "2"

	if err := NewRefresher(cfg).Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if gotSection != "2" {
		t.Fatalf("section = %q, want 2", gotSection)
	}
	if gotAgent != userAgent {
		t.Fatalf("user agent = %q", gotAgent)
	}
}

func TestRefreshFailureIsBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scanner busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.LibraryServer.Enabled = true
	cfg.LibraryServer.URL = server.URL

	err := NewRefresher(cfg).Refresh(context.Background())
	if !errors.Is(err, services.ErrBestEffort) {
		t.Fatalf("expected best-effort error, got %v", err)
	}
}

func TestDisabledServerIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LibraryServer.Enabled = false
	cfg.LibraryServer.URL = "http://127.0.0.1:1"
	if err := NewRefresher(cfg).Refresh(context.Background()); err != nil {
		t.Fatalf("noop refresher must not fail: %v", err)
	}
}
