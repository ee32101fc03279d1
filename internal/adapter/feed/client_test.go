package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Run("returns body on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("listing body")) //nolint:errcheck
		}))
		defer srv.Close()

		c := NewClient(time.Second, slog.Default())
		body, err := c.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("listing body"), body)
	})

	t.Run("non success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(time.Second, slog.Default())
		_, err := c.Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // closed before the request

		c := NewClient(time.Second, slog.Default())
		_, err := c.Fetch(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		c := NewClient(time.Second, slog.Default())
		_, err := c.Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})
}
