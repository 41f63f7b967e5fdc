package pipeline

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/util"
	"github.com/ppiankov/kampsync/internal/worker"
)

// Fetcher performs single GET requests. It never retries.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	timeout    time.Duration
	limiter    *worker.Limiter
}

// NewFetcher creates a Fetcher. A positive timeout bounds each request on top of the caller's
// context; limiter may be nil.
func NewFetcher(cfg model.HTTPConfig, timeout time.Duration, limiter *worker.Limiter) *Fetcher {
	transport := util.NewTransport(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = model.DefaultUserAgent
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}

	return &Fetcher{
		httpClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return errors.New("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		timeout:   timeout,
		limiter:   limiter,
	}
}

// FetchResult contains a fetched body and response metadata
type FetchResult struct {
	Body        []byte
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves rawURL. Non-2xx responses are errors marked with ErrUnexpectedStatus.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,*/*;q=0.8")
	req.Header.Set("Accept-Language", "nb-NO,nb;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "fetch"), errTransport)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read body"), errTransport)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
