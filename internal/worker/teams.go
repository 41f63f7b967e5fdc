package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/ppiankov/kampsync/internal/model"
)

// TeamOutcome is the result of refreshing one team
type TeamOutcome struct {
	Team     model.Team
	Err      error
	Duration time.Duration
}

// TeamFunc does all the work for one team. It runs sequentially within the team.
type TeamFunc func(ctx context.Context, team model.Team) error

// RunTeams runs fn for every team on a pool of size workers.
// Outcomes are returned in the order of teams regardless of completion order.
func RunTeams(ctx context.Context, teams []model.Team, size int, fn TeamFunc) ([]TeamOutcome, error) {
	outcomes := make([]TeamOutcome, len(teams))
	if len(teams) == 0 {
		return outcomes, nil
	}
	if size < 1 {
		size = 1
	}
	if size > len(teams) {
		size = len(teams)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, team := range teams {
		i, team := i, team
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			err := fn(ctx, team)
			outcomes[i] = TeamOutcome{Team: team, Err: err, Duration: time.Since(start)}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, errors.Wrap(err, "submit team to worker pool")
		}
	}

	workers.Wait()
	return outcomes, nil
}
