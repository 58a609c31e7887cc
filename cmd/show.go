package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/storage"
)

var showPlayer int64

var showCmd = &cobra.Command{
	Use:   "show <game_id>",
	Short: "Show a stored game's per-player impact table",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showPlayer, "player", 0, "focus player id")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	focusPlayer = showPlayer
	return showStored(db, args[0])
}
