package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/model"
	"github.com/courtside/go-spa-metrics/internal/report"
	"github.com/courtside/go-spa-metrics/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <player_id>",
	Short: "Show one player's impact across all stored games",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player id %q: %w", args[0], err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.GetPlayerSeason(model.PlayerID(id))
	if err != nil {
		return fmt.Errorf("player season: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintf(os.Stdout, "No stored games for player %d.\n", id)
		return nil
	}
	report.PrintPlayerSeasonTable(os.Stdout, model.PlayerID(id), games)
	return nil
}
