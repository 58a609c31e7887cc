package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside/go-spa-metrics/internal/aggregator"
	"github.com/courtside/go-spa-metrics/internal/classify"
	"github.com/courtside/go-spa-metrics/internal/impact"
	"github.com/courtside/go-spa-metrics/internal/loader"
	"github.com/courtside/go-spa-metrics/internal/model"
	"github.com/courtside/go-spa-metrics/internal/report"
	"github.com/courtside/go-spa-metrics/internal/sequence"
	"github.com/courtside/go-spa-metrics/internal/storage"
)

var (
	ratingsPath  string
	shootingPath string
	focusPlayer  int64
	rateForce    bool
)

var rateCmd = &cobra.Command{
	Use:   "rate <game.csv>",
	Short: "Rate one game's play-by-play file and store per-player impact",
	Args:  cobra.ExactArgs(1),
	RunE:  runRate,
}

func init() {
	rateCmd.Flags().StringVar(&ratingsPath, "ratings", "", "team offensive ratings CSV (default <data_dir>/ratings.csv)")
	rateCmd.Flags().StringVar(&shootingPath, "shooting", "", "player shooting percentages CSV (default <data_dir>/shooting.csv)")
	rateCmd.Flags().Int64Var(&focusPlayer, "player", 0, "focus player id")
	rateCmd.Flags().BoolVar(&rateForce, "force", false, "re-rate even if the game is already stored")
}

// ratedGame carries one game's full rating output between the pipeline and
// the store.
type ratedGame struct {
	summary model.GameSummary
	records []model.AttributionRecord
	impacts []model.PlayerGameImpact
	events  []model.Event
}

func runRate(cmd *cobra.Command, args []string) error {
	gamePath := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ratings, shooting, err := loadLookups()
	if err != nil {
		return err
	}

	rated, err := rateOne(log, gamePath, ratings, shooting)
	if err != nil {
		return err
	}

	exists, err := db.GameExists(rated.summary.GameID)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists && !rateForce {
		fmt.Fprintf(os.Stdout, "Game %s already rated — showing stored results (use --force to re-rate).\n", rated.summary.GameID)
		return showStored(db, rated.summary.GameID)
	}

	if err := storeGame(db, rated); err != nil {
		return err
	}

	report.PrintGameSummary(os.Stdout, rated.summary)
	report.PrintRunStats(os.Stdout, rated.summary)
	report.PrintImpactTable(rated.impacts, model.PlayerID(focusPlayer))

	if focusPlayer != 0 {
		series := aggregator.Series(rated.records, rated.events)
		report.PrintSeries(os.Stdout, model.PlayerID(focusPlayer), series[model.PlayerID(focusPlayer)])
	}
	return nil
}

// loadLookups reads the ratings and shooting tables, falling back to the
// configured data directory when the flags are unset. Missing files are not
// fatal: the engine then rates with zero lookups, which disables
// assist/putback splitting but keeps attribution running.
func loadLookups() (map[string]loader.TeamRatings, *loader.Shooting, error) {
	rp := ratingsPath
	if rp == "" {
		rp = filepath.Join(cfg.DataDir, "ratings.csv")
	}
	sp := shootingPath
	if sp == "" {
		sp = filepath.Join(cfg.DataDir, "shooting.csv")
	}

	var ratings map[string]loader.TeamRatings
	if _, err := os.Stat(rp); err == nil {
		ratings, err = loader.ReadRatings(rp)
		if err != nil {
			return nil, nil, fmt.Errorf("read ratings: %w", err)
		}
	} else {
		log.Warn("ratings table not found, assist splitting disabled", zap.String("path", rp))
	}

	var shooting *loader.Shooting
	if _, err := os.Stat(sp); err == nil {
		shooting, err = loader.ReadShooting(sp)
		if err != nil {
			return nil, nil, fmt.Errorf("read shooting: %w", err)
		}
	} else {
		log.Warn("shooting table not found, assist splitting disabled", zap.String("path", sp))
	}

	return ratings, shooting, nil
}

// rateOne runs the full attribution pipeline for one game file:
// load -> classify -> group -> attribute -> aggregate.
func rateOne(log *zap.Logger, gamePath string, ratings map[string]loader.TeamRatings, shooting *loader.Shooting) (*ratedGame, error) {
	raw, err := loader.ReadGame(gamePath)
	if err != nil {
		return nil, fmt.Errorf("read game: %w", err)
	}

	events, dropped := classify.Game(log, raw)
	seqs, err := sequence.Group(events)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", raw.GameID, err)
	}

	lk := loader.Lookups(raw.GameID, ratings, shooting)
	rating := impact.New(log).Rate(raw.GameID, seqs, lk)
	impacts := aggregator.GameImpact(raw.GameID, rating.Records)

	finalProb := 0.5
	if len(events) > 0 {
		finalProb = events[len(events)-1].WinProb
	}

	return &ratedGame{
		summary: model.GameSummary{
			GameID:    raw.GameID,
			RatedAt:   time.Now().UTC().Format(time.RFC3339),
			Events:    len(events),
			Sequences: rating.Sequences,
			Dropped:   dropped,
			Skipped:   rating.Skipped,
			Fallbacks: rating.Fallbacks,
			FinalProb: finalProb,
		},
		records: rating.Records,
		impacts: impacts,
		events:  events,
	}, nil
}

func storeGame(db *storage.DB, rated *ratedGame) error {
	if err := db.InsertGame(rated.summary); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := db.InsertAttributions(rated.summary.GameID, rated.records); err != nil {
		return fmt.Errorf("insert attributions: %w", err)
	}
	if err := db.InsertPlayerGameImpact(rated.impacts); err != nil {
		return fmt.Errorf("insert impact: %w", err)
	}
	return nil
}

func showStored(db *storage.DB, gameID string) error {
	summary, err := db.GetGame(gameID)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("game not found: %s", gameID)
	}
	impacts, err := db.GetPlayerGameImpact(gameID)
	if err != nil {
		return err
	}
	report.PrintGameSummary(os.Stdout, *summary)
	report.PrintRunStats(os.Stdout, *summary)
	report.PrintImpactTable(impacts, model.PlayerID(focusPlayer))
	return nil
}
