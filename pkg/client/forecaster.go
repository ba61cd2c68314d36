// Package client provides the HTTP client for the forecaster API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/epiforge/epicurve/pkg/storage"
)

// ForecasterClient fetches forecast snapshots from a running forecaster.
// It is safe for concurrent use by multiple goroutines.
type ForecasterClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewForecasterClient creates a client for the forecaster at baseURL
// (scheme and host, e.g. "http://localhost:8081") with a 5s timeout.
func NewForecasterClient(baseURL string) *ForecasterClient {
	return NewForecasterClientWithTimeout(baseURL, 5*time.Second)
}

// NewForecasterClientWithTimeout creates a client with a custom timeout.
func NewForecasterClientWithTimeout(baseURL string, timeout time.Duration) *ForecasterClient {
	return &ForecasterClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SnapshotResult carries the snapshot plus the server's staleness flag.
type SnapshotResult struct {
	Snapshot storage.Snapshot
	Stale    bool // true when the X-Epicurve-Stale header was set
}

// GetSnapshot fetches the latest forecast snapshot for an area.
func (c *ForecasterClient) GetSnapshot(ctx context.Context, area string) (*SnapshotResult, error) {
	if area == "" {
		return nil, fmt.Errorf("area cannot be empty")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/forecast/current"
	query := u.Query()
	query.Set("area", area)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("snapshot not found for area %q", area)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var snap storage.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &SnapshotResult{
		Snapshot: snap,
		Stale:    resp.Header.Get("X-Epicurve-Stale") == "true",
	}, nil
}

// IsStale reports whether a snapshot is older than staleAfter.
func IsStale(snap storage.Snapshot, staleAfter time.Duration) bool {
	return time.Since(snap.GeneratedAt) > staleAfter
}
