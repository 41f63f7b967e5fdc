package pipeline

import (
	"context"

	"github.com/ppiankov/kampsync/internal/extract"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
)

// ResultFetcher reads the final score from a match detail page.
// Every failure is logged and reported as a nil result.
type ResultFetcher struct {
	fetcher   *Fetcher
	extractor extract.ScoreExtractor
	logger    *logging.Logger
}

// NewResultFetcher creates a ResultFetcher; a nil extractor means the default selector strategy
func NewResultFetcher(fetcher *Fetcher, extractor extract.ScoreExtractor, logger *logging.Logger) *ResultFetcher {
	if extractor == nil {
		extractor = extract.NewSelectorExtractor(extract.DefaultScoreContainer, extract.DefaultScoreCell)
	}
	return &ResultFetcher{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logging.OrDefault(logger),
	}
}

// Fetch resolves rawURL. URLs without a match id are rejected without a request.
func (r *ResultFetcher) Fetch(ctx context.Context, rawURL string) *model.AuthoritativeResult {
	matchID, ok := extract.MatchIDFromURL(rawURL)
	if !ok {
		r.logger.DebugContext(ctx, "no match id in url", "url", rawURL)
		return nil
	}

	res, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		r.logger.WarnContext(ctx, "result page fetch failed", "match_id", matchID, "url", rawURL, "error", err)
		return nil
	}

	home, away, found := r.extractor.Extract(string(res.Body))
	if !found {
		r.logger.DebugContext(ctx, "no score on result page", "match_id", matchID)
		return nil
	}

	result := model.NewAuthoritativeResult(matchID, home, away)
	return &result
}
