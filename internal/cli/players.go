package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/stats"
	"github.com/ppiankov/kampsync/internal/store"
)

var (
	playersOut string
	playersTop int
)

// playersCmd represents the players command
var playersCmd = &cobra.Command{
	Use:   "players <boxscores.json>",
	Short: "Aggregate per-player statistics from box-score data",
	Long: `Players folds a box-score corpus (a JSON array of matches with home and
away player lines) into one record per player: appearances, goals, the teams
played for and the primary team.

Example:
  kampsync players boxscores.json
  kampsync players boxscores.json --out ./data/players.json --top 20`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayers,
}

func init() {
	rootCmd.AddCommand(playersCmd)

	playersCmd.Flags().StringVar(&playersOut, "out", "", "output path (default: <output-dir>/players.json)")
	playersCmd.Flags().IntVar(&playersTop, "top", 10, "number of top scorers to print")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)
	defer func() { _ = logger.Sync() }()

	matches, err := store.ReadBoxScores(args[0])
	if err != nil {
		return err
	}

	ranked := stats.RankByGoals(stats.AggregatePlayers(matches))

	out := playersOut
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, store.PlayersFile)
	}
	if err := store.NewWriter(filepath.Dir(out)).WriteJSON(filepath.Base(out), ranked); err != nil {
		return err
	}

	logger.Info("players aggregated", "matches", len(matches), "players", len(ranked), "out", out)
	fmt.Fprintf(os.Stderr, "✓ Aggregated %d players from %d matches: %s\n\n", len(ranked), len(matches), out)
	printTopScorers(ranked, playersTop)
	return nil
}

func printTopScorers(players []model.PlayerAggregate, n int) {
	if n > len(players) {
		n = len(players)
	}
	for i := 0; i < n; i++ {
		p := players[i]
		number := "  "
		if p.Number != nil {
			number = fmt.Sprintf("%2d", *p.Number)
		}
		fmt.Printf("%3d. #%s %-28s %-24s %3d goals in %d games\n",
			i+1, number, p.Name, p.PrimaryTeam.Name, p.Goals, p.Appearances)
	}
}
