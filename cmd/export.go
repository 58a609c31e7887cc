package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/courtside/go-spa-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <game_id>",
	Short: "Export a game's attribution records as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	records, err := db.GetAttributions(gameID)
	if err != nil {
		return fmt.Errorf("get attributions: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no attributions stored for game %s", gameID)
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"GAME_ID", "EVENT_INDEX", "PLAYER_ID", "ROLE", "DELTA"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.GameID,
			strconv.Itoa(r.EventIndex),
			strconv.FormatInt(int64(r.Player), 10),
			string(r.Role),
			strconv.FormatFloat(r.Delta, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
