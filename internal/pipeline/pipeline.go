package pipeline

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/ppiankov/kampsync/internal/cache"
	"github.com/ppiankov/kampsync/internal/extract"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/reconcile"
	"github.com/ppiankov/kampsync/internal/store"
	"github.com/ppiankov/kampsync/internal/util"
	"github.com/ppiankov/kampsync/internal/worker"
)

// Pipeline refreshes teams: schedule, results, reconciliation and artifacts
type Pipeline struct {
	schedule  *ScheduleFetcher
	collector *worker.Collector
	writer    *store.Writer
	logger    *logging.Logger
}

// NewPipeline wires a Pipeline from cfg. resultCache may be nil.
func NewPipeline(cfg *model.Config, resultCache cache.Cache, logger *logging.Logger) (*Pipeline, error) {
	logger = logging.OrDefault(logger)
	limiter := NewLimiter(cfg.RateLimiting)

	extractor, err := extract.NewScoreExtractor(cfg.Results.Extractor, cfg.Results.Container, cfg.Results.Cell)
	if err != nil {
		return nil, errors.Wrap(err, "score extractor")
	}

	// Schedule attempts are bounded by their own per-attempt timeout.
	scheduleFetcher := NewFetcher(cfg.HTTP, 0, limiter)
	resultFetcher := NewFetcher(cfg.HTTP, cfg.Results.Timeout, limiter)

	var source worker.ResultSource = NewResultFetcher(resultFetcher, extractor, logger)
	if resultCache != nil {
		source = NewCachedResultFetcher(source, resultCache, cfg.Cache.TTL, logger)
	}

	collector := worker.NewCollector(source, cfg.Results.Delay, logger)
	if cfg.Results.RespectRobots {
		transport := util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		collector.WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.Results.Timeout, transport, limiter))
	}

	return &Pipeline{
		schedule:  NewScheduleFetcher(scheduleFetcher, cfg.Schedule, logger),
		collector: collector,
		writer:    store.NewWriter(cfg.Output.Dir),
		logger:    logger,
	}, nil
}

// NewLimiter builds the per-host limiter shared by every fetch of a run, with host overrides applied
func NewLimiter(cfg model.RateLimitConfig) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	for _, h := range cfg.Hosts {
		if h.Host == "" {
			continue
		}
		limiter.SetHostRate(h.Host, h.RequestsPerSecond, h.BurstSize)
	}
	return limiter
}

// TeamReport summarizes one team refresh
type TeamReport struct {
	Team     model.Team
	Dir      string
	Fixtures int
	Played   int
	Resolved int
	Matches  int
}

// RefreshTeam fetches the team's schedule, resolves result pages and writes
// fixtures.json, results.json and matches.json below the team's directory.
// Only schedule exhaustion and write failures are errors.
func (p *Pipeline) RefreshTeam(ctx context.Context, team model.Team, progress worker.ProgressFunc) (*TeamReport, error) {
	fixtures, err := p.schedule.Fetch(ctx, team)
	if err != nil {
		return nil, err
	}

	dir := team.Slug()
	if dir == "" {
		dir = "team"
	}

	sorted := reconcile.SortChronologically(fixtures)
	if err := p.writer.WriteJSON(filepath.Join(dir, store.FixturesFile), sorted); err != nil {
		return nil, errors.Wrapf(err, "write fixtures for %s", team.Name)
	}

	urls, played := ResultURLs(team, sorted)
	resolved := p.collector.Collect(ctx, urls, progress)

	tournament := reconcile.TournamentMatches(team.TournamentURLs, resolved, extract.MatchIDFromURL)
	// Fixture-sourced entries keep feed order.
	matches := reconcile.MergeMatches(tournament, fixtures)

	if err := p.writer.WriteJSON(filepath.Join(dir, store.ResultsFile), resolved); err != nil {
		return nil, errors.Wrapf(err, "write results for %s", team.Name)
	}
	if err := p.writer.WriteJSON(filepath.Join(dir, store.MatchesFile), matches); err != nil {
		return nil, errors.Wrapf(err, "write matches for %s", team.Name)
	}

	report := &TeamReport{
		Team:     team,
		Dir:      p.writer.Path(dir),
		Fixtures: len(fixtures),
		Played:   played,
		Resolved: len(resolved),
		Matches:  len(matches),
	}
	p.logger.InfoContext(ctx, "team refreshed",
		"team", team.Name,
		"fixtures", report.Fixtures,
		"played", report.Played,
		"resolved", report.Resolved,
		"matches", report.Matches,
	)
	return report, nil
}

// ResultURLs lists the result pages to resolve for a team: its tournament URLs first, then the
// detail URLs of played fixtures. URLs naming an already listed match id are dropped, keeping the
// first occurrence; URLs without a match id are deduplicated by their text.
func ResultURLs(team model.Team, fixtures []model.FixtureRecord) (urls []string, played int) {
	seen := make(map[string]bool, len(team.TournamentURLs)+len(fixtures))
	add := func(u string) {
		if u == "" {
			return
		}
		key := "url:" + u
		if id, ok := extract.MatchIDFromURL(u); ok {
			key = "id:" + id
		}
		if seen[key] {
			return
		}
		seen[key] = true
		urls = append(urls, u)
	}

	for _, u := range team.TournamentURLs {
		add(u)
	}
	for _, f := range fixtures {
		if !f.HasResult() {
			continue
		}
		played++
		add(f.MatchURL)
	}
	return urls, played
}
