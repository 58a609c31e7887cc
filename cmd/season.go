package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtside/go-spa-metrics/internal/report"
	"github.com/courtside/go-spa-metrics/internal/storage"
)

var seasonForce bool

var seasonCmd = &cobra.Command{
	Use:   "season <dir>",
	Short: "Rate every game CSV in a directory and print the season leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeason,
}

func init() {
	seasonCmd.Flags().StringVar(&ratingsPath, "ratings", "", "team offensive ratings CSV (default <dir>/ratings.csv)")
	seasonCmd.Flags().StringVar(&shootingPath, "shooting", "", "player shooting percentages CSV (default <dir>/shooting.csv)")
	seasonCmd.Flags().BoolVar(&seasonForce, "force", false, "re-rate games that are already stored")
}

func runSeason(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if ratingsPath == "" {
		ratingsPath = filepath.Join(dir, "ratings.csv")
	}
	if shootingPath == "" {
		shootingPath = filepath.Join(dir, "shooting.csv")
	}

	games, err := gameFiles(dir)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return fmt.Errorf("no game files in %s", dir)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ratings, shooting, err := loadLookups()
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Games rate independently and in parallel; a bad file is logged and
	// counted, never fatal for the batch. Store writes are serialized.
	var (
		mu       sync.Mutex
		rated    atomic.Int64
		skipped  atomic.Int64
		failures atomic.Int64
	)
	var g errgroup.Group
	g.SetLimit(workers)

	for _, path := range games {
		path := path
		g.Go(func() error {
			out, err := rateOne(log, path, ratings, shooting)
			if err != nil {
				log.Error("rating failed", zap.String("file", path), zap.Error(err))
				failures.Add(1)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			exists, err := db.GameExists(out.summary.GameID)
			if err != nil {
				log.Error("check game", zap.String("game", out.summary.GameID), zap.Error(err))
				failures.Add(1)
				return nil
			}
			if exists && !seasonForce {
				skipped.Add(1)
				return nil
			}
			if err := storeGame(db, out); err != nil {
				log.Error("store game", zap.String("game", out.summary.GameID), zap.Error(err))
				failures.Add(1)
				return nil
			}
			rated.Add(1)
			return nil
		})
	}
	g.Wait()

	fmt.Fprintf(os.Stdout, "\nSeason run: %d rated, %d already stored, %d failed (of %d files)\n\n",
		rated.Load(), skipped.Load(), failures.Load(), len(games))

	leaders, err := db.SeasonLeaders(0)
	if err != nil {
		return fmt.Errorf("season leaders: %w", err)
	}
	report.PrintLeadersTable(os.Stdout, leaders)
	return nil
}

// gameFiles lists the play-by-play CSVs in dir, excluding the lookup tables.
func gameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		switch e.Name() {
		case "ratings.csv", "shooting.csv":
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
