package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/temoto/robotstxt"
)

// RateWaiter blocks until a request to rawURL fits the host's rate budget
type RateWaiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// RobotsChecker checks robots.txt compliance for result page scraping
type RobotsChecker struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	limiter    RateWaiter
	userAgent  string
	agentToken string
}

// NewRobotsChecker creates a new robots.txt checker. robots.txt requests go through transport
// (the default transport when nil) and wait on limiter when it is not nil, so they share the
// proxy and per-host budget of page fetches.
func NewRobotsChecker(userAgent string, timeout time.Duration, transport http.RoundTripper, limiter RateWaiter) *RobotsChecker {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &RobotsChecker{
		cache: make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter:    limiter,
		userAgent:  userAgent,
		agentToken: NormalizeUserAgent(userAgent),
	}
}

// CanFetch checks if the URL can be fetched according to robots.txt.
// Returns (allowed, crawlDelay, error). An unreachable robots.txt allows everything.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, errors.Wrap(err, "parse URL")
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

	data, err := r.getRobotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	if path == "" {
		path = "/"
	}

	group := data.FindGroup(r.agentToken)
	if group == nil {
		return true, 0, nil
	}

	return group.Test(path), group.CrawlDelay, nil
}

// getRobotsData fetches and caches robots.txt data per host
func (r *RobotsChecker) getRobotsData(ctx context.Context, host string, robotsURL string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()

	if exists {
		return data, nil
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, robotsURL); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch robots.txt")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "parse robots.txt")
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()

	return data, nil
}

// NormalizeUserAgent reduces a User-Agent header to the product token used in robots.txt groups
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
