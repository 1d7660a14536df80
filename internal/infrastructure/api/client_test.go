package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveBackendCall(resource, method, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, resource+" "+method+" "+outcome)
}

func newTestClient(t *testing.T, baseURL string, obs Observer) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, UserAgent: "console-test", Observer: obs})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "localhost:8080"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestClient_Do_SendsJSONHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":1},"status":200,"message":"OK","timestamp":"now"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	env, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/robots"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "console-test", got.Get("User-Agent"))
	assert.Equal(t, 200, env.Status)
	assert.JSONEq(t, `{"ok":1}`, string(env.Data))
}

func TestClient_Do_NonSuccessIsRequestFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"ignored"}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, server.URL, obs)

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products/x", Resource: "products"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))

	var failed *RequestFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, http.StatusNotFound, failed.StatusCode)
	assert.Equal(t, "Not Found", failed.Status)
	assert.Equal(t, "API Error: Not Found", err.Error())
	assert.Equal(t, []string{"products GET " + metrics.OutcomeHTTPError}, obs.calls)
}

func TestClient_Do_NoRetry(t *testing.T) {
	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/robots"})
	require.ErrorIs(t, err, ErrRequestFailed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
}

func TestClient_Do_TransportErrorIsNotRequestFailed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, url, obs)
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/shelves", Resource: "shelves"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRequestFailed))
	assert.Equal(t, []string{"shelves GET " + metrics.OutcomeTransport}, obs.calls)
}

func TestClient_Do_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, server.URL, obs)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/robots", Resource: "robots"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"robots GET " + metrics.OutcomeCanceled}, obs.calls)
}

func TestClient_Do_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	ok, err := doJSON[bool](context.Background(), c, Request{Method: http.MethodDelete, Path: "/products"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Do_EscapesQuery(t *testing.T) {
	var rawQuery, rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		rawPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(warehouse.Envelope[[]warehouse.Product]{Data: nil})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	products := NewProductClient(c)

	result, err := products.Search(context.Background(), "nuts & bolts")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Equal(t, "q=nuts+%26+bolts", rawQuery)

	_, err = products.GetByID(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/products/a%2Fb", rawPath)
}
