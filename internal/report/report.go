package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// PrintGameSummary prints a one-line summary header for a rated game.
func PrintGameSummary(w io.Writer, s model.GameSummary) {
	outcome := "visitor win"
	if s.FinalProb >= 0.5 {
		outcome = "home win"
	}
	fmt.Fprintf(w, "\nGame: %s  |  Rated: %s  |  Events: %d  |  Sequences: %d  |  Final: %.2f (%s)\n\n",
		s.GameID, s.RatedAt, s.Events, s.Sequences, s.FinalProb, outcome)
}

// PrintRunStats prints the classifier/engine drop counters for a rating run.
// Silent when every row attributed cleanly.
func PrintRunStats(w io.Writer, s model.GameSummary) {
	if s.Dropped == 0 && s.Skipped == 0 && s.Fallbacks == 0 {
		return
	}
	fmt.Fprintf(w, "Rows dropped: %d  |  Events skipped (no actor): %d  |  Fallback sequences: %d\n\n",
		s.Dropped, s.Skipped, s.Fallbacks)
}

// PrintImpactTable prints a game's per-player impact table to stdout.
// If focusPlayer is non-zero, that player's row is marked with ">".
func PrintImpactTable(impacts []model.PlayerGameImpact, focusPlayer model.PlayerID) {
	PrintImpactTableTo(os.Stdout, impacts, focusPlayer)
}

// PrintImpactTableTo writes the table to the provided writer.
func PrintImpactTableTo(w io.Writer, impacts []model.PlayerGameImpact, focusPlayer model.PlayerID) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(" ", "PLAYER", "IMPACT", "EVENTS")

	for _, p := range impacts {
		marker := " "
		if focusPlayer != 0 && p.Player == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			strconv.FormatInt(int64(p.Player), 10),
			fmt.Sprintf("%+.4f", p.Impact),
			strconv.Itoa(p.Events),
		)
	}
	table.Render()
}

// PrintLeadersTable prints the season leaderboard.
func PrintLeadersTable(w io.Writer, leaders []model.PlayerSeasonImpact) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("RANK", "PLAYER", "GP", "EVENTS", "TOTAL", "PER_GAME")

	for i := range leaders {
		l := &leaders[i]
		table.Append(
			strconv.Itoa(i+1),
			strconv.FormatInt(int64(l.Player), 10),
			strconv.Itoa(l.Games),
			strconv.Itoa(l.Events),
			fmt.Sprintf("%+.4f", l.Total),
			fmt.Sprintf("%+.4f", l.PerGame()),
		)
	}
	table.Render()
}

// PrintPlayerSeasonTable prints one player's per-game impact lines, newest
// first, with a season total footer line.
func PrintPlayerSeasonTable(w io.Writer, player model.PlayerID, games []model.PlayerGameImpact) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("GAME", "IMPACT", "EVENTS")

	total := 0.0
	for _, g := range games {
		total += g.Impact
		table.Append(
			g.GameID,
			fmt.Sprintf("%+.4f", g.Impact),
			strconv.Itoa(g.Events),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\nPlayer %d: %d games, season total %+.4f\n", player, len(games), total)
}

// PrintSeries prints a player's cumulative impact trajectory over game time.
func PrintSeries(w io.Writer, player model.PlayerID, points []model.ImpactPoint) {
	if len(points) == 0 {
		fmt.Fprintf(w, "\nNo attributed events for player %d.\n", player)
		return
	}
	fmt.Fprintf(w, "\nImpact trajectory for player %d:\n", player)
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("TIME", "CUMULATIVE")
	for _, p := range points {
		table.Append(
			fmt.Sprintf("%d:%02d", p.Time/60, p.Time%60),
			fmt.Sprintf("%+.4f", p.Cumulative),
		)
	}
	table.Render()
}

// PrintGamesTable prints the stored-games list.
func PrintGamesTable(w io.Writer, games []model.GameSummary) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("GAME", "RATED_AT", "EVENTS", "SEQ", "DROPPED", "SKIPPED", "FALLBACK", "FINAL")

	for _, g := range games {
		table.Append(
			g.GameID,
			g.RatedAt,
			strconv.Itoa(g.Events),
			strconv.Itoa(g.Sequences),
			strconv.Itoa(g.Dropped),
			strconv.Itoa(g.Skipped),
			strconv.Itoa(g.Fallbacks),
			fmt.Sprintf("%.2f", g.FinalProb),
		)
	}
	table.Render()
}
