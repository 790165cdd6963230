// Package libserver asks the library server to re-scan a section after the
// symlink tree changed. The request is strictly best-effort: the pipeline
// logs failures and moves on.
package libserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recut/internal/config"
	"recut/internal/services"
)

const userAgent = "recut/0.1.0"

// Refresher triggers a library-section refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// NewRefresher builds a refresher from configuration. When the library
// server is disabled or has no URL, a noop implementation is returned.
func NewRefresher(cfg *config.Config) Refresher {
	endpoint := strings.TrimSpace(cfg.LibraryServer.URL)
	if !cfg.LibraryServer.Enabled || endpoint == "" {
		return noopRefresher{}
	}
	timeout := time.Duration(cfg.LibraryServer.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpRefresher{
		endpoint: endpoint,
		section:  strings.TrimSpace(cfg.LibraryServer.Section),
		client:   &http.Client{Timeout: timeout},
	}
}

type httpRefresher struct {
	endpoint string
	section  string
	client   *http.Client
}

// Refresh issues the section-refresh request. Any failure is wrapped as
// best-effort so callers never escalate it.
func (r *httpRefresher) Refresh(ctx context.Context) error {
	target, err := url.Parse(r.endpoint)
	if err != nil {
		return services.Wrap(services.ErrBestEffort, "library-server", "refresh", "bad endpoint", err)
	}
	if r.section != "" {
		query := target.Query()
		query.Set("section", r.section)
		target.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrBestEffort, "library-server", "refresh", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrBestEffort, "library-server", "refresh", "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrBestEffort, "library-server", "refresh",
			fmt.Sprintf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) error { return nil }
