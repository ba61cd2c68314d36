package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/epiforge/epicurve/pkg/storage"
)

func snapshotServer(t *testing.T, snap storage.Snapshot, stale bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast/current" {
			http.NotFound(w, r)
			return
		}
		area := r.URL.Query().Get("area")
		if area != snap.Area {
			http.NotFound(w, r)
			return
		}
		if stale {
			w.Header().Set("X-Epicurve-Stale", "true")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}))
}

func TestGetSnapshot(t *testing.T) {
	want := storage.Snapshot{
		Area:        "Italy",
		Kind:        "cases",
		Model:       "simple_exp",
		GeneratedAt: time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
		AnchorValue: 506.25,
		Params:      []float64{100, 1.5},
		Daily:       []float64{253.125, 379.6875, 569.53125},
	}
	srv := snapshotServer(t, want, false)
	defer srv.Close()

	c := NewForecasterClient(srv.URL)
	got, err := c.GetSnapshot(context.Background(), "Italy")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}

	if got.Stale {
		t.Error("Stale = true, want false")
	}
	if got.Snapshot.Area != "Italy" || got.Snapshot.AnchorValue != 506.25 {
		t.Errorf("snapshot = %+v", got.Snapshot)
	}
	if len(got.Snapshot.Daily) != 3 {
		t.Errorf("Daily len = %d, want 3", len(got.Snapshot.Daily))
	}
	if !got.Snapshot.GeneratedAt.Equal(want.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.Snapshot.GeneratedAt, want.GeneratedAt)
	}
}

func TestGetSnapshot_StaleHeader(t *testing.T) {
	srv := snapshotServer(t, storage.Snapshot{Area: "Italy"}, true)
	defer srv.Close()

	c := NewForecasterClient(srv.URL)
	got, err := c.GetSnapshot(context.Background(), "Italy")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if !got.Stale {
		t.Error("Stale = false, want true")
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	srv := snapshotServer(t, storage.Snapshot{Area: "Italy"}, false)
	defer srv.Close()

	c := NewForecasterClient(srv.URL)
	if _, err := c.GetSnapshot(context.Background(), "Atlantis"); err == nil {
		t.Fatal("GetSnapshot(unknown) error = nil, want not-found error")
	}
}

func TestGetSnapshot_EmptyArea(t *testing.T) {
	c := NewForecasterClient("http://localhost:0")
	if _, err := c.GetSnapshot(context.Background(), ""); err == nil {
		t.Fatal("GetSnapshot(\"\") error = nil, want validation error")
	}
}

func TestGetSnapshot_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewForecasterClient(srv.URL)
	if _, err := c.GetSnapshot(context.Background(), "Italy"); err == nil {
		t.Fatal("GetSnapshot() error = nil, want status error")
	}
}

func TestGetSnapshot_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewForecasterClient(srv.URL)
	if _, err := c.GetSnapshot(ctx, "Italy"); err == nil {
		t.Fatal("GetSnapshot() error = nil, want context deadline error")
	}
}

func TestIsStale(t *testing.T) {
	fresh := storage.Snapshot{GeneratedAt: time.Now().Add(-time.Minute)}
	old := storage.Snapshot{GeneratedAt: time.Now().Add(-time.Hour)}

	if IsStale(fresh, 10*time.Minute) {
		t.Error("fresh snapshot reported stale")
	}
	if !IsStale(old, 10*time.Minute) {
		t.Error("hour-old snapshot not reported stale")
	}
}
