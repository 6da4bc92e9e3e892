package fetchutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(resty.New())
	c.BackoffUnit = time.Millisecond
	return c
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	body, err := testClient(t).Fetch(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", body)
}

func TestFetchRateLimitedNoRetry(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(t).Fetch(context.Background(), http.MethodGet, server.URL, nil)
	require.Error(t, err)
	require.True(t, IsRateLimited(err))
	require.Equal(t, int64(1), hits.Load())

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	require.Equal(t, 2*time.Minute, rle.RetryAfter)
}

func TestFetchPermanent(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden} {
		var hits atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(status)
		}))

		_, err := testClient(t).Fetch(context.Background(), http.MethodGet, server.URL, nil)
		require.True(t, IsPermanent(err))
		require.Equal(t, int64(1), hits.Load())

		var pe *PermanentError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, status, pe.StatusCode)
		server.Close()
	}
}

func TestFetchTransientRetries(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(t).Fetch(context.Background(), http.MethodGet, server.URL, nil)
	require.Error(t, err)
	require.Equal(t, int64(3), hits.Load())

	var te *TransientError
	require.ErrorAs(t, err, &te)
	require.Equal(t, 3, te.Attempts)
}

func TestFetchRecoversMidRetry(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	body, err := testClient(t).Fetch(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "recovered", body)
	require.Equal(t, int64(2), hits.Load())
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(t).Fetch(ctx, http.MethodGet, "http://127.0.0.1:0", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchPostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Write([]byte(r.PostFormValue("q")))
	}))
	defer server.Close()

	body, err := testClient(t).Fetch(context.Background(), http.MethodPost, server.URL, map[string]string{"q": "parcel"})
	require.NoError(t, err)
	require.Equal(t, "parcel", body)
}
