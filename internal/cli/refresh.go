package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/kampsync/internal/cache"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/pipeline"
	"github.com/ppiankov/kampsync/internal/worker"
)

var (
	refreshTimeout time.Duration
	noCache        bool
	teamName       string
	teamListID     string
	teamSeasonID   string
	tournamentURLs []string
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh [team...]",
	Short: "Refresh fixtures, results and the reconciled match list for teams",
	Long: `Refresh runs the full sync for every configured team (or the named ones):
- Download the team's fixture spreadsheet (with retries)
- Read final scores from tournament and played-match result pages
- Reconcile both sources into one de-duplicated match list
- Write fixtures.json, results.json and matches.json under <output-dir>/<team>

Teams are matched by name or list id. A team can also be given ad hoc with --team-id.

Example:
  kampsync refresh
  kampsync refresh "Lyn G16" --output-dir ./data
  kampsync refresh --team-id 123456 --season-id 2025 --name "Lyn G16"`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 30*time.Minute, "overall refresh timeout")
	refreshCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force fresh fetch)")
	refreshCmd.Flags().StringVar(&teamName, "name", "", "team name for an ad hoc team")
	refreshCmd.Flags().StringVar(&teamListID, "team-id", "", "fixture feed team id for an ad hoc team")
	refreshCmd.Flags().StringVar(&teamSeasonID, "season-id", "", "season id for an ad hoc team")
	refreshCmd.Flags().StringSliceVar(&tournamentURLs, "tournament-url", nil, "result page URL for an ad hoc team (repeatable)")
	refreshCmd.Flags().Int("concurrency", 0, "number of teams refreshed in parallel")

	_ = viper.BindPFlag("concurrency.teams", refreshCmd.Flags().Lookup("concurrency"))
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	teams, err := selectTeams(cfg.Teams, args, adHocTeam())
	if err != nil {
		return err
	}

	logger := setupLogging(cfg)
	defer func() { _ = logger.Sync() }()

	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(logging.WithRunID(context.Background(), runID), refreshTimeout)
	defer cancel()

	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.WarnContext(ctx, "result cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
		resultCache = nil
	}
	defer closeCache(ctx, resultCache, logger)

	p, err := pipeline.NewPipeline(cfg, resultCache, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Kampsync Refresh\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Teams:        %d\n", len(teams))
	fmt.Fprintf(os.Stderr, "  Parallel:     %d\n", cfg.Concurrency.Teams)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", resultCache != nil)
	fmt.Fprintf(os.Stderr, "\n")

	var mu sync.Mutex
	reports := make(map[string]*pipeline.TeamReport, len(teams))

	outcomes, err := worker.RunTeams(ctx, teams, cfg.Concurrency.Teams, func(ctx context.Context, team model.Team) error {
		progress := func(pos, total int) {
			if cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "  %s: result page %d/%d\n", team.Name, pos, total)
			}
		}

		report, err := p.RefreshTeam(ctx, team, progress)
		if err != nil {
			return err
		}

		mu.Lock()
		reports[teamKey(team)] = report
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	failures := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Team.Name, outcome.Err)
			logger.ErrorContext(ctx, "team refresh failed", "team", outcome.Team.Name, "list_id", outcome.Team.ListID, "error", outcome.Err)
			continue
		}

		r := reports[teamKey(outcome.Team)]
		fmt.Fprintf(os.Stderr, "✓ %s: %d fixtures, %d played, %d results, %d matches (%s)\n",
			outcome.Team.Name, r.Fixtures, r.Played, r.Resolved, r.Matches, outcome.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(outcomes)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 {
		return errors.Newf("%d of %d team(s) failed to refresh", failures, len(outcomes))
	}
	return nil
}

// closeCache releases backends holding connections, such as redis
func closeCache(ctx context.Context, c cache.Cache, logger *logging.Logger) {
	closer, ok := c.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logging.OrDefault(logger).WarnContext(ctx, "close result cache", "error", err)
	}
}

func teamKey(team model.Team) string {
	return team.ListID + "/" + team.SeasonID + "/" + team.Name
}

func adHocTeam() *model.Team {
	if teamListID == "" {
		return nil
	}
	name := teamName
	if name == "" {
		name = teamListID
	}
	return &model.Team{
		Name:           name,
		ListID:         teamListID,
		SeasonID:       teamSeasonID,
		TournamentURLs: tournamentURLs,
	}
}

// selectTeams picks the teams to refresh. An ad hoc team takes precedence over the configured
// list; otherwise names select configured teams by name or list id, and no names means all.
func selectTeams(configured []model.Team, names []string, adHoc *model.Team) ([]model.Team, error) {
	if adHoc != nil {
		return []model.Team{*adHoc}, nil
	}
	if len(configured) == 0 {
		return nil, errors.New("no teams configured: add teams to the config file or pass --team-id")
	}
	if len(names) == 0 {
		return configured, nil
	}

	var selected []model.Team
	for _, name := range names {
		found := false
		for _, team := range configured {
			if strings.EqualFold(team.Name, name) || team.ListID == name {
				selected = append(selected, team)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Newf("unknown team %q", name)
		}
	}
	return selected, nil
}
