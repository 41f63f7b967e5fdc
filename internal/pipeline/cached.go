package pipeline

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ppiankov/kampsync/internal/cache"
	"github.com/ppiankov/kampsync/internal/extract"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/worker"
)

const resultNamespace = "result"

// CachedResultFetcher serves resolved results from a cache keyed by match id.
// Only resolved results are stored; absence is always re-checked.
type CachedResultFetcher struct {
	next   worker.ResultSource
	cache  cache.Cache
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedResultFetcher wraps next. A nil cache disables caching.
func NewCachedResultFetcher(next worker.ResultSource, c cache.Cache, ttl time.Duration, logger *logging.Logger) *CachedResultFetcher {
	return &CachedResultFetcher{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logging.OrDefault(logger),
	}
}

func (c *CachedResultFetcher) Fetch(ctx context.Context, rawURL string) *model.AuthoritativeResult {
	matchID, ok := extract.MatchIDFromURL(rawURL)
	if !ok || c.cache == nil {
		return c.next.Fetch(ctx, rawURL)
	}

	key := cache.CacheKey(resultNamespace, matchID)
	if data, hit := c.cache.Get(key); hit {
		var cached model.AuthoritativeResult
		if err := sonic.Unmarshal(data, &cached); err == nil && cached.MatchID == matchID {
			c.logger.DebugContext(ctx, "result cache hit", "match_id", matchID)
			return &cached
		}
		_ = c.cache.Delete(key)
	}

	res := c.next.Fetch(ctx, rawURL)
	if res == nil {
		return nil
	}

	data, err := sonic.Marshal(res)
	if err != nil {
		c.logger.WarnContext(ctx, "result cache encode failed", "match_id", matchID, "error", err)
		return res
	}
	if err := c.cache.Set(key, data, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "result cache write failed", "match_id", matchID, "error", err)
	}
	return res
}
