package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/report"
	"github.com/courtside/go-spa-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'spametrics rate <game.csv>' first.")
		return nil
	}
	report.PrintGamesTable(os.Stdout, games)
	return nil
}
