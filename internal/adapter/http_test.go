package adapter_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/logger"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func TestHTTPClient_RetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(adapter.HTTPClientConfig{Timeout: time.Second, MaxElapsedTime: 10 * time.Second})
	body, err := client.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_PermanentStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such block", http.StatusNotFound)
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(adapter.HTTPClientConfig{Timeout: time.Second, MaxElapsedTime: 10 * time.Second})
	_, err := client.Get(context.Background(), srv.URL)

	var statusErr *adapter.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "no such block")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(adapter.HTTPClientConfig{Timeout: time.Second})
	_, err := client.Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_PostReplaysBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(adapter.HTTPClientConfig{Timeout: time.Second, MaxElapsedTime: 10 * time.Second})
	body, err := client.Post(context.Background(), srv.URL, "text/plain", []byte("hello"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClient_MaxResponseSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 32)))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(adapter.HTTPClientConfig{Timeout: time.Second, MaxResponseSize: 16})
	_, err := client.Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}
