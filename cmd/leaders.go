package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/report"
	"github.com/courtside/go-spa-metrics/internal/storage"
)

var leadersLimit int

var leadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "Show the season impact leaderboard across stored games",
	Args:  cobra.NoArgs,
	RunE:  runLeaders,
}

func init() {
	leadersCmd.Flags().IntVar(&leadersLimit, "limit", 20, "number of players to show (0 for all)")
}

func runLeaders(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	leaders, err := db.SeasonLeaders(leadersLimit)
	if err != nil {
		return fmt.Errorf("season leaders: %w", err)
	}
	if len(leaders) == 0 {
		fmt.Fprintln(os.Stdout, "No impact rows stored yet. Run 'spametrics rate <game.csv>' first.")
		return nil
	}
	report.PrintLeadersTable(os.Stdout, leaders)
	return nil
}
