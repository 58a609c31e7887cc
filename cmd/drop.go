package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/storage"
)

var dropCmd = &cobra.Command{
	Use:   "drop <game_id>",
	Short: "Delete a stored game and its attribution rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func runDrop(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.GameExists(gameID)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if !exists {
		return fmt.Errorf("game not found: %s", gameID)
	}

	if err := db.DeleteGame(gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped game %s.\n", gameID)
	return nil
}
