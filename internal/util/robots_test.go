package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(t *testing.T, body string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestRobotsChecker_DisallowAndCrawlDelay(t *testing.T) {
	server, hits := robotsServer(t, "User-agent: kampsync\nDisallow: /private\nCrawl-delay: 2\n", http.StatusOK)
	checker := NewRobotsChecker("kampsync/0.3 (+https://example.com)", time.Second, nil, nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/kamp?matchid=1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/kamp?matchid=1")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), hits.Load(), "robots.txt is fetched once per host")
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server, _ := robotsServer(t, "", http.StatusNotFound)
	checker := NewRobotsChecker("kampsync/0.3", time.Second, nil, nil)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, delay)
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker("kampsync/0.3", 200*time.Millisecond, nil, nil)

	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/kamp")
	require.NoError(t, err)
	assert.True(t, allowed)
}

type countingWaiter struct {
	urls []string
	err  error
}

func (w *countingWaiter) Wait(_ context.Context, rawURL string) error {
	w.urls = append(w.urls, rawURL)
	return w.err
}

func TestRobotsChecker_WaitsOnLimiter(t *testing.T) {
	server, hits := robotsServer(t, "User-agent: *\nDisallow:\n", http.StatusOK)
	waiter := &countingWaiter{}
	checker := NewRobotsChecker("kampsync/0.3", time.Second, nil, waiter)
	ctx := context.Background()

	for _, path := range []string{"/kamp?matchid=1", "/kamp?matchid=2"} {
		allowed, _, err := checker.CanFetch(ctx, server.URL+path)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	assert.Equal(t, []string{server.URL + "/robots.txt"}, waiter.urls, "only the robots.txt fetch waits")
	assert.Equal(t, int32(1), hits.Load())
}

func TestRobotsChecker_LimiterErrorAllows(t *testing.T) {
	server, hits := robotsServer(t, "User-agent: *\nDisallow: /\n", http.StatusOK)
	checker := NewRobotsChecker("kampsync/0.3", time.Second, nil, &countingWaiter{err: context.DeadlineExceeded})

	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/kamp")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, hits.Load())
}

func TestRobotsChecker_UsesProxyTransport(t *testing.T) {
	var proxied atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(r.URL.String())
		_, _ = fmt.Fprint(w, "User-agent: kampsync\nDisallow: /lukket\n")
	}))
	t.Cleanup(proxy.Close)

	transport := NewTransport(proxy.URL, "", "")
	checker := NewRobotsChecker("kampsync/0.3", time.Second, transport, nil)
	ctx := context.Background()

	allowed, _, err := checker.CanFetch(ctx, "http://www.fotball.invalid/lukket/kamp")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, "http://www.fotball.invalid/robots.txt", proxied.Load())
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "kampsync", NormalizeUserAgent("kampsync/0.3 (+https://example.com)"))
	assert.Equal(t, "Mozilla", NormalizeUserAgent("Mozilla/5.0 (X11)"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}

func TestNewProxyFunc_ExplicitProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "")

	req, err := http.NewRequest(http.MethodGet, "http://www.example.com/kamp", nil)
	require.NoError(t, err)

	u, err := proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.local:3128", u.Host)
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://proxy.local:3128", "internal.example")

	req, err := http.NewRequest(http.MethodGet, "https://internal.example/x", nil)
	require.NoError(t, err)

	u, err := proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewTransport_Proxy(t *testing.T) {
	transport := NewTransport("http://proxy.local:3128", "", "")

	req, err := http.NewRequest(http.MethodGet, "http://www.example.com/kamp", nil)
	require.NoError(t, err)

	u, err := transport.Proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.local:3128", u.Host)
}
