package worker

import (
	"context"
	"time"

	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
)

// ResultSource resolves one result page. Absence is reported as nil, never as an error.
type ResultSource interface {
	Fetch(ctx context.Context, rawURL string) *model.AuthoritativeResult
}

// RobotsPolicy decides whether a URL may be fetched and how long to pause after it
type RobotsPolicy interface {
	CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error)
}

// ProgressFunc is called with the 1-based position before each URL is fetched
type ProgressFunc func(pos, total int)

// collectSleepFunc is swappable in tests
var collectSleepFunc = func(ctx context.Context, d time.Duration) error {
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

// Collector resolves result pages strictly one after another with a fixed pause between them
type Collector struct {
	source ResultSource
	delay  time.Duration
	robots RobotsPolicy
	logger *logging.Logger
}

// NewCollector creates a collector. A negative delay falls back to the default.
func NewCollector(source ResultSource, delay time.Duration, logger *logging.Logger) *Collector {
	if delay < 0 {
		delay = model.DefaultResultDelay
	}
	return &Collector{
		source: source,
		delay:  delay,
		logger: logging.OrDefault(logger),
	}
}

// WithRobots makes the collector skip URLs the policy disallows
func (c *Collector) WithRobots(policy RobotsPolicy) *Collector {
	c.robots = policy
	return c
}

// Collect fetches every URL in order and returns the resolved results keyed by match id.
// A failed page is skipped; cancellation stops the loop between URLs.
func (c *Collector) Collect(ctx context.Context, urls []string, progress ProgressFunc) map[string]model.AuthoritativeResult {
	results := make(map[string]model.AuthoritativeResult, len(urls))
	total := len(urls)

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			c.logger.WarnContext(ctx, "result collection interrupted", "done", i, "total", total, "error", err)
			break
		}

		if progress != nil {
			progress(i+1, total)
		}

		pause := c.delay
		if c.permitted(ctx, rawURL, &pause) {
			if res := c.source.Fetch(ctx, rawURL); res != nil {
				results[res.MatchID] = *res
			}
		}

		if i == total-1 {
			break
		}
		if err := collectSleepFunc(ctx, pause); err != nil {
			c.logger.WarnContext(ctx, "result collection interrupted", "done", i+1, "total", total, "error", err)
			break
		}
	}

	c.logger.DebugContext(ctx, "result collection finished", "urls", total, "resolved", len(results))
	return results
}

func (c *Collector) permitted(ctx context.Context, rawURL string, pause *time.Duration) bool {
	if c.robots == nil {
		return true
	}

	allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
	if err != nil {
		c.logger.WarnContext(ctx, "robots check failed", "url", rawURL, "error", err)
		return false
	}
	if !allowed {
		c.logger.InfoContext(ctx, "result page disallowed by robots.txt", "url", rawURL)
		return false
	}
	if crawlDelay > *pause {
		*pause = crawlDelay
	}
	return true
}
