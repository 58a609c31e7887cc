// Package loader reads the tables the upstream cleaning pipeline produces:
// per-game play-by-play CSVs with an aligned win-probability column, plus the
// team-rating and shooting lookup tables.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// TeamRatings holds both sides' offensive ratings for one game.
type TeamRatings struct {
	HomeORTG    float64
	VisitorORTG float64
}

// Shooting holds the per-player shooting lookups used by the assist and
// putback credit formulas. Free-throw percentages are stored under the
// reserved zone name "FT".
type Shooting struct {
	Zone map[model.PlayerID]map[string]float64
	FT   map[model.PlayerID]float64
}

// ftZone is the reserved zone name marking free-throw percentage rows.
const ftZone = "FT"

// ReadGame reads one game's event table. The game id defaults to the file's
// base name when the GAME_ID column is empty.
func ReadGame(path string) (*model.RawGame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, err := columnIndex(header,
		"GAME_ID", "PERIOD", "TIME", "EVENTMSGTYPE",
		"PLAYER1_ID", "PLAYER2_ID", "POINTS", "SHOT_ZONE", "HOME", "WIN_PROB")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	defaultID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	game := &model.RawGame{GameID: defaultID}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		row := model.RawEvent{
			GameID:   rec[col["GAME_ID"]],
			ShotZone: rec[col["SHOT_ZONE"]],
		}
		if row.GameID == "" {
			row.GameID = defaultID
		}
		if row.Period, err = strconv.Atoi(rec[col["PERIOD"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: period: %w", path, line, err)
		}
		if row.Time, err = strconv.Atoi(rec[col["TIME"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: time: %w", path, line, err)
		}
		if row.MsgType, err = strconv.Atoi(rec[col["EVENTMSGTYPE"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: event type: %w", path, line, err)
		}
		if row.Player1, err = parsePlayer(rec[col["PLAYER1_ID"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: player1: %w", path, line, err)
		}
		if row.Player2, err = parsePlayer(rec[col["PLAYER2_ID"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: player2: %w", path, line, err)
		}
		if row.Points, err = parseIntDefault(rec[col["POINTS"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: points: %w", path, line, err)
		}
		row.Home = parseBool(rec[col["HOME"]])
		if row.WinProb, err = strconv.ParseFloat(rec[col["WIN_PROB"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: win prob: %w", path, line, err)
		}

		if game.GameID == defaultID && row.GameID != "" {
			game.GameID = row.GameID
		}
		game.Rows = append(game.Rows, row)
	}

	return game, nil
}

// ReadRatings reads the per-game team offensive-rating table, keyed by game id.
func ReadRatings(path string) (map[string]TeamRatings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, err := columnIndex(header, "GAME_ID", "HOME_OFF_RATING", "VISITOR_OFF_RATING")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make(map[string]TeamRatings)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		var tr TeamRatings
		if tr.HomeORTG, err = strconv.ParseFloat(rec[col["HOME_OFF_RATING"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: home rating: %w", path, line, err)
		}
		if tr.VisitorORTG, err = strconv.ParseFloat(rec[col["VISITOR_OFF_RATING"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: visitor rating: %w", path, line, err)
		}
		out[rec[col["GAME_ID"]]] = tr
	}
	return out, nil
}

// ReadShooting reads the per-player shooting table: one row per
// (player, zone) with rows under zone "FT" carrying free-throw percentages.
func ReadShooting(path string) (*Shooting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shooting file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, err := columnIndex(header, "PLAYER_ID", "ZONE", "FG_PCT")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := &Shooting{
		Zone: make(map[model.PlayerID]map[string]float64),
		FT:   make(map[model.PlayerID]float64),
	}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		player, err := parsePlayer(rec[col["PLAYER_ID"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: player: %w", path, line, err)
		}
		pct, err := strconv.ParseFloat(rec[col["FG_PCT"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: pct: %w", path, line, err)
		}
		zone := rec[col["ZONE"]]
		if zone == ftZone {
			out.FT[player] = pct
			continue
		}
		if out.Zone[player] == nil {
			out.Zone[player] = make(map[string]float64)
		}
		out.Zone[player][zone] = pct
	}
	return out, nil
}

// Lookups assembles the engine's lookup tables for one game.
func Lookups(gameID string, ratings map[string]TeamRatings, shooting *Shooting) model.Lookups {
	lk := model.Lookups{}
	if tr, ok := ratings[gameID]; ok {
		lk.HomeORTG = tr.HomeORTG
		lk.VisitorORTG = tr.VisitorORTG
	}
	if shooting != nil {
		lk.ZoneFGPct = shooting.Zone
		lk.FTPct = shooting.FT
	}
	return lk
}

func columnIndex(header []string, want ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToUpper(name))] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %s", name)
		}
	}
	return idx, nil
}

func parsePlayer(s string) (model.PlayerID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return model.PlayerID(id), nil
}

func parseIntDefault(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseBool(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "home", "h", "yes":
		return true
	}
	return false
}
