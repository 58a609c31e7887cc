package storage

import (
	"database/sql"
	"fmt"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game summary. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(s model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(game_id, rated_at, events, sequences, dropped, skipped, fallbacks, final_prob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.GameID, s.RatedAt, s.Events, s.Sequences, s.Dropped, s.Skipped, s.Fallbacks, s.FinalProb,
	)
	return err
}

// InsertAttributions bulk-inserts attribution records in a transaction,
// replacing any previous rows for the game.
func (db *DB) InsertAttributions(gameID string, records []model.AttributionRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM attributions WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("clear attributions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO attributions(game_id, event_index, player_id, role, delta)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.GameID, r.EventIndex, int64(r.Player), string(r.Role), r.Delta); err != nil {
			return fmt.Errorf("insert attribution at event %d: %w", r.EventIndex, err)
		}
	}
	return tx.Commit()
}

// InsertPlayerGameImpact bulk-inserts per-player game impact rows in a transaction.
func (db *DB) InsertPlayerGameImpact(impacts []model.PlayerGameImpact) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_game_impact(game_id, player_id, impact, events)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range impacts {
		if _, err := stmt.Exec(p.GameID, int64(p.Player), p.Impact, p.Events); err != nil {
			return fmt.Errorf("insert impact for player %d: %w", p.Player, err)
		}
	}
	return tx.Commit()
}

// DeleteGame removes a game and its attribution rows.
func (db *DB) DeleteGame(gameID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM attributions WHERE game_id = ?",
		"DELETE FROM player_game_impact WHERE game_id = ?",
		"DELETE FROM games WHERE game_id = ?",
	} {
		if _, err := tx.Exec(q, gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	return tx.Commit()
}

// ListGames returns all stored game summaries ordered by rating time desc.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, rated_at, events, sequences, dropped, skipped, fallbacks, final_prob
		FROM games ORDER BY rated_at DESC, game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.GameID, &s.RatedAt, &s.Events, &s.Sequences,
			&s.Dropped, &s.Skipped, &s.Fallbacks, &s.FinalProb); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetGame returns the stored summary for one game, or nil when absent.
func (db *DB) GetGame(gameID string) (*model.GameSummary, error) {
	var s model.GameSummary
	err := db.conn.QueryRow(`
		SELECT game_id, rated_at, events, sequences, dropped, skipped, fallbacks, final_prob
		FROM games WHERE game_id = ?`, gameID).
		Scan(&s.GameID, &s.RatedAt, &s.Events, &s.Sequences,
			&s.Dropped, &s.Skipped, &s.Fallbacks, &s.FinalProb)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerGameImpact returns the per-player impact rows for a game,
// ordered by impact descending.
func (db *DB) GetPlayerGameImpact(gameID string) ([]model.PlayerGameImpact, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, impact, events
		FROM player_game_impact WHERE game_id = ?
		ORDER BY impact DESC, player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameImpact
	for rows.Next() {
		var p model.PlayerGameImpact
		var playerID int64
		if err := rows.Scan(&playerID, &p.Impact, &p.Events); err != nil {
			return nil, err
		}
		p.GameID = gameID
		p.Player = model.PlayerID(playerID)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SeasonLeaders aggregates stored per-game impact into a season leaderboard,
// ordered by total impact descending. limit <= 0 returns all players.
func (db *DB) SeasonLeaders(limit int) ([]model.PlayerSeasonImpact, error) {
	q := `
		SELECT player_id, COUNT(DISTINCT game_id), SUM(events), SUM(impact)
		FROM player_game_impact
		GROUP BY player_id
		ORDER BY SUM(impact) DESC, player_id`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSeasonImpact
	for rows.Next() {
		var s model.PlayerSeasonImpact
		var playerID int64
		if err := rows.Scan(&playerID, &s.Games, &s.Events, &s.Total); err != nil {
			return nil, err
		}
		s.Player = model.PlayerID(playerID)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerSeason returns one player's per-game impact rows across all stored
// games, newest first, plus the season total.
func (db *DB) GetPlayerSeason(player model.PlayerID) ([]model.PlayerGameImpact, error) {
	rows, err := db.conn.Query(`
		SELECT i.game_id, i.impact, i.events
		FROM player_game_impact i
		JOIN games g ON g.game_id = i.game_id
		WHERE i.player_id = ?
		ORDER BY g.rated_at DESC, i.game_id`, int64(player))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameImpact
	for rows.Next() {
		p := model.PlayerGameImpact{Player: player}
		if err := rows.Scan(&p.GameID, &p.Impact, &p.Events); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetAttributions returns a game's attribution rows in event order.
func (db *DB) GetAttributions(gameID string) ([]model.AttributionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT event_index, player_id, role, delta
		FROM attributions WHERE game_id = ?
		ORDER BY event_index, role`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttributionRecord
	for rows.Next() {
		var r model.AttributionRecord
		var playerID int64
		var role string
		if err := rows.Scan(&r.EventIndex, &playerID, &role, &r.Delta); err != nil {
			return nil, err
		}
		r.GameID = gameID
		r.Player = model.PlayerID(playerID)
		r.Role = model.Role(role)
		out = append(out, r)
	}
	return out, rows.Err()
}
