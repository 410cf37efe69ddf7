package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGet(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode([]item{{ID: 1, Name: "Leanne"}})
	})

	client := NewClient(srv.URL+"/", Options{})
	var out []item
	require.NoError(t, client.Get(context.Background(), "/users", &out))
	assert.Equal(t, []item{{ID: 1, Name: "Leanne"}}, out)
}

func TestClientPost(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in item
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 501
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	})

	client := NewClient(srv.URL, Options{})
	var out item
	require.NoError(t, client.Post(context.Background(), "/comments", item{Name: "Al"}, &out))
	assert.Equal(t, item{ID: 501, Name: "Al"}, out)
}

func TestClientDelete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/comments/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	client := NewClient(srv.URL, Options{})
	assert.NoError(t, client.Delete(context.Background(), "/comments/3"))
}

func TestClientErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		})
		client := NewClient(srv.URL, Options{})

		err := client.Get(context.Background(), "/posts?userId=7", &[]item{})
		require.Error(t, err)

		var terr *Error
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
		assert.Equal(t, "/posts?userId=7", terr.Path)
		assert.Contains(t, terr.Body, "boom")
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		})
		client := NewClient(srv.URL, Options{})

		err := client.Get(context.Background(), "/users", &[]item{})
		require.Error(t, err)
		assert.Equal(t, 0, StatusCode(err))
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := NewClient(url, Options{})
		assert.Error(t, client.Get(context.Background(), "/users", &[]item{}))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		client := NewClient(srv.URL, Options{Timeout: 50 * time.Millisecond})
		assert.Error(t, client.Get(context.Background(), "/users", &[]item{}))
	})
}

func TestClientRateLimit(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	client := NewClient(srv.URL, Options{RateLimit: 0.001, Burst: 1})
	require.NoError(t, client.Get(context.Background(), "/users", &[]item{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := client.Get(ctx, "/users", &[]item{})
	assert.ErrorIs(t, err, ErrRateLimited)
}
