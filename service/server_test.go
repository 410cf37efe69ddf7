package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"postbrowser/app/models"
	"postbrowser/app/store"
	"postbrowser/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerGracefulShutdown(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()
	stores := store.NewBadgerStores(db)
	fixture, err := store.DefaultFixture()
	require.NoError(t, err)
	require.NoError(t, store.Seed(stores, fixture))

	cfg := config.Default().Server
	cfg.RateLimit = 100
	cfg.RateBurst = 100
	cfg.ShutdownTimeout = time.Second
	srv := NewServer(cfg, stores, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/users")
	require.NoError(t, err)
	var users []models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, users, 4)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunRejectsBadDBPath(t *testing.T) {
	cfg := config.Default().Server
	cfg.DBPath = "/dev/null/badger"

	err := Run(context.Background(), cfg, false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
