package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/epiforge/epicurve/cmd/forecaster/router"
	"github.com/epiforge/epicurve/pkg/client"
	"github.com/epiforge/epicurve/pkg/storage"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}
	return addr
}

func testSnapshot(area string) storage.Snapshot {
	return storage.Snapshot{
		Area:        area,
		Kind:        "cases",
		Model:       "simple_exp",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		AnchorDate:  time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
		AnchorValue: 506.25,
		Params:      []float64{100, 1.5},
		Daily:       []float64{253.125, 379.6875, 569.53125},
		Cumulative:  []float64{759.375, 1139.0625, 1708.59375},
	}
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	addr := startRedis(t)

	store, err := storage.NewRedisStore(addr, "", 0, 0)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	t.Run("PutGetRoundtrip", func(t *testing.T) {
		want := testSnapshot("Italy")
		if err := store.Put(want); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, ok, err := store.GetLatest("Italy")
		if err != nil {
			t.Fatalf("GetLatest() error = %v", err)
		}
		if !ok {
			t.Fatal("GetLatest() ok = false, want true")
		}
		if got.Area != want.Area || got.AnchorValue != want.AnchorValue {
			t.Errorf("GetLatest() = %+v, want %+v", got, want)
		}
		if !got.GeneratedAt.Equal(want.GeneratedAt) {
			t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, want.GeneratedAt)
		}
		if len(got.Daily) != 3 || got.Daily[2] != 569.53125 {
			t.Errorf("Daily = %v, want %v", got.Daily, want.Daily)
		}
	})

	t.Run("MissingArea", func(t *testing.T) {
		_, ok, err := store.GetLatest("Atlantis")
		if err != nil {
			t.Fatalf("GetLatest() error = %v", err)
		}
		if ok {
			t.Error("GetLatest(missing) ok = true, want false")
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		first := testSnapshot("Spain")
		if err := store.Put(first); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		second := first
		second.AnchorValue = 759.375
		if err := store.Put(second); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, _, err := store.GetLatest("Spain")
		if err != nil {
			t.Fatalf("GetLatest() error = %v", err)
		}
		if got.AnchorValue != 759.375 {
			t.Errorf("AnchorValue = %f, want replaced 759.375", got.AnchorValue)
		}
	})
}

func TestRedisStore_TTL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	addr := startRedis(t)

	store, err := storage.NewRedisStore(addr, "", 0, time.Second)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Put(testSnapshot("Italy")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok, _ := store.GetLatest("Italy"); !ok {
		t.Fatal("snapshot missing right after Put")
	}

	time.Sleep(1500 * time.Millisecond)

	_, ok, err := store.GetLatest("Italy")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if ok {
		t.Error("snapshot survived past its TTL")
	}
}

// TestServeFromRedis wires the redis store behind the HTTP router and reads
// it back through the API client, the same path the plotcurve CLI takes.
func TestServeFromRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	addr := startRedis(t)

	store, err := storage.NewRedisStore(addr, "", 0, 0)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Put(testSnapshot("Italy")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(router.SetupRoutes(store, time.Hour, logger))
	defer srv.Close()

	c := client.NewForecasterClient(srv.URL)
	got, err := c.GetSnapshot(context.Background(), "Italy")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got.Stale {
		t.Error("fresh snapshot reported stale")
	}
	if got.Snapshot.AnchorValue != 506.25 {
		t.Errorf("AnchorValue = %f, want 506.25", got.Snapshot.AnchorValue)
	}
	if len(got.Snapshot.Cumulative) != 3 {
		t.Errorf("Cumulative len = %d, want 3", len(got.Snapshot.Cumulative))
	}

	if _, err := c.GetSnapshot(context.Background(), "Atlantis"); err == nil {
		t.Error("GetSnapshot(unknown) error = nil, want not-found error")
	}
}
