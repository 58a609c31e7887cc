// Package aggregator folds attribution records into per-player totals for a
// game, a season, or a cumulative time series. All folds are recomputed from
// scratch and are order-independent.
package aggregator

import (
	"sort"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// kahanSum is a compensated accumulator. Summing hundreds of thousands of
// small attribution deltas with naive float64 addition drifts; Kahan
// summation keeps the error bounded independent of record count.
type kahanSum struct {
	sum float64
	c   float64
}

func (k *kahanSum) add(x float64) {
	y := x - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

// GameImpact sums attribution records into one row per player for a game.
// Rows are sorted by impact descending for stable output.
func GameImpact(gameID string, records []model.AttributionRecord) []model.PlayerGameImpact {
	type accum struct {
		sum    kahanSum
		events int
	}
	byPlayer := make(map[model.PlayerID]*accum)
	for _, r := range records {
		acc := byPlayer[r.Player]
		if acc == nil {
			acc = &accum{}
			byPlayer[r.Player] = acc
		}
		acc.sum.add(r.Delta)
		acc.events++
	}

	out := make([]model.PlayerGameImpact, 0, len(byPlayer))
	for id, acc := range byPlayer {
		out = append(out, model.PlayerGameImpact{
			GameID: gameID,
			Player: id,
			Impact: acc.sum.sum,
			Events: acc.events,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Impact != out[j].Impact {
			return out[i].Impact > out[j].Impact
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Season folds per-game impact rows into one row per player across games.
func Season(impacts []model.PlayerGameImpact) []model.PlayerSeasonImpact {
	type accum struct {
		sum    kahanSum
		games  map[string]struct{}
		events int
	}
	byPlayer := make(map[model.PlayerID]*accum)
	for _, g := range impacts {
		acc := byPlayer[g.Player]
		if acc == nil {
			acc = &accum{games: make(map[string]struct{})}
			byPlayer[g.Player] = acc
		}
		acc.sum.add(g.Impact)
		acc.games[g.GameID] = struct{}{}
		acc.events += g.Events
	}

	out := make([]model.PlayerSeasonImpact, 0, len(byPlayer))
	for id, acc := range byPlayer {
		out = append(out, model.PlayerSeasonImpact{
			Player: id,
			Games:  len(acc.games),
			Events: acc.events,
			Total:  acc.sum.sum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Series builds each player's cumulative impact over game time, for
// charting a game's impact board. Events must be the game's classified
// events; record deltas are accumulated at their event's timestamp.
func Series(records []model.AttributionRecord, events []model.Event) map[model.PlayerID][]model.ImpactPoint {
	timeByIndex := make(map[int]int, len(events))
	for _, ev := range events {
		timeByIndex[ev.Index] = ev.Time
	}

	// Records arrive in event order; accumulate per player as we walk them.
	sums := make(map[model.PlayerID]*kahanSum)
	series := make(map[model.PlayerID][]model.ImpactPoint)
	for _, r := range records {
		k := sums[r.Player]
		if k == nil {
			k = &kahanSum{}
			sums[r.Player] = k
		}
		k.add(r.Delta)
		series[r.Player] = append(series[r.Player], model.ImpactPoint{
			Time:       timeByIndex[r.EventIndex],
			Cumulative: k.sum,
		})
	}
	return series
}
