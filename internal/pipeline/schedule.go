package pipeline

import (
	"context"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ppiankov/kampsync/internal/extract"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
)

// fetchSleepFunc waits out the backoff between attempts; swappable in tests
var fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScheduleFetcher downloads a team's fixture spreadsheet with linear backoff.
// It returns every row or an error, never a partial list.
type ScheduleFetcher struct {
	fetcher *Fetcher
	baseURL string
	cfg     model.ScheduleConfig
	logger  *logging.Logger
}

// NewScheduleFetcher creates a ScheduleFetcher; out-of-range retry settings fall back to defaults
func NewScheduleFetcher(fetcher *Fetcher, cfg model.ScheduleConfig, logger *logging.Logger) *ScheduleFetcher {
	return &ScheduleFetcher{
		fetcher: fetcher,
		baseURL: cfg.BaseURL,
		cfg:     cfg.Normalized(),
		logger:  logging.OrDefault(logger),
	}
}

// ScheduleURL returns the feed URL for team
func (s *ScheduleFetcher) ScheduleURL(team model.Team) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse schedule base url %q", s.baseURL)
	}

	q := u.Query()
	q.Set("teamId", team.ListID)
	if team.SeasonID != "" {
		q.Set("seasonId", team.SeasonID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch downloads and parses the schedule for team. Attempt n is followed by a pause of
// Backoff*n; after MaxAttempts failures the error is marked ErrScheduleUnavailable.
func (s *ScheduleFetcher) Fetch(ctx context.Context, team model.Team) ([]model.FixtureRecord, error) {
	rawURL, err := s.ScheduleURL(team)
	if err != nil {
		return nil, errors.Mark(err, ErrScheduleUnavailable)
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		rows, err := s.attempt(ctx, rawURL)
		if err == nil {
			s.logger.DebugContext(ctx, "schedule fetched", "team", team.Name, "rows", len(rows), "attempt", attempt)
			return rows, nil
		}
		lastErr = err

		if attempt == s.cfg.MaxAttempts {
			break
		}

		delay := s.cfg.Backoff * time.Duration(attempt)
		s.logger.WarnContext(ctx, "schedule fetch failed, retrying",
			"team", team.Name,
			"attempt", attempt,
			"max_attempts", s.cfg.MaxAttempts,
			"retryable", IsRetryable(err),
			"backoff", delay,
			"error", err,
		)
		if err := fetchSleepFunc(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	return nil, errors.Mark(
		errors.Wrapf(lastErr, "fetch schedule for %s (list %s) failed after %d attempt(s)", team.Name, team.ListID, attempts),
		ErrScheduleUnavailable,
	)
}

func (s *ScheduleFetcher) attempt(ctx context.Context, rawURL string) ([]model.FixtureRecord, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	res, err := s.fetcher.Fetch(attemptCtx, rawURL)
	if err != nil {
		return nil, err
	}

	rows, err := extract.ParseFixtureSheet(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse fixture sheet")
	}
	return rows, nil
}
