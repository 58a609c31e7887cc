// Package impact implements the attribution rule engine: it walks a game's
// sequences and allocates each sequence's win-probability change across the
// players involved, according to a fixed taxonomy of event and sequence
// patterns.
//
// Every attributed delta is oriented to the credited player's own team: a
// positive value means the play helped that player's team win. With the win
// probability expressed for the home team, that means home players receive
// the raw delta and visitors its negation.
package impact

import (
	"go.uber.org/zap"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// preGameProb is the win probability before any event resolves.
const preGameProb = 0.5

// Engine computes per-player attribution for one game at a time. It holds no
// mutable state between games, so one Engine may rate many games, including
// concurrently.
type Engine struct {
	log *zap.Logger
}

// New returns an Engine that logs warnings to the given logger.
func New(log *zap.Logger) *Engine {
	return &Engine{log: log}
}

// Rate allocates win-probability deltas for every sequence of a game.
// Sequences must be in chronological order; per-sequence problems are
// contained (logged, counted) and never abort the game.
func (e *Engine) Rate(gameID string, seqs []model.Sequence, lk model.Lookups) *model.GameRating {
	rating := &model.GameRating{GameID: gameID, Sequences: len(seqs)}

	prev := preGameProb
	for i := range seqs {
		seq := &seqs[i]
		delta := seq.Last().WinProb - prev
		prev = seq.Last().WinProb

		evs, skipped := e.attributable(seq)
		rating.Skipped += skipped
		if len(evs) == 0 {
			continue
		}

		var recs []model.AttributionRecord
		if len(evs) == 1 {
			recs = e.single(evs[0], delta, lk)
		} else {
			var fellBack bool
			recs, fellBack = e.compound(seq, evs, delta, lk)
			if fellBack {
				rating.Fallbacks++
			}
		}
		rating.Records = append(rating.Records, recs...)
	}

	return rating
}

// attributable filters a sequence down to the events that can carry player
// credit, skipping (with a log) any that lack a required primary actor.
func (e *Engine) attributable(seq *model.Sequence) ([]model.Event, int) {
	evs := make([]model.Event, 0, len(seq.Events))
	skipped := 0
	for _, ev := range seq.Events {
		switch ev.Category {
		case model.CategoryShotMade, model.CategoryShotMissed, model.CategoryFreeThrow,
			model.CategoryRebound, model.CategoryFoul, model.CategoryTurnover,
			model.CategorySteal, model.CategoryViolation:
		default:
			continue
		}
		if ev.Primary == 0 {
			skipped++
			err := &MissingActorError{GameID: ev.GameID, Index: ev.Index, Category: ev.Category}
			e.log.Warn("skipping event without required actor", zap.Error(err))
			continue
		}
		evs = append(evs, ev)
	}
	return evs, skipped
}

// orient expresses a home-frame delta from the point of view of one side.
func orient(delta float64, home bool) float64 {
	if home {
		return delta
	}
	return -delta
}

// single attributes a one-event sequence.
func (e *Engine) single(ev model.Event, delta float64, lk model.Lookups) []model.AttributionRecord {
	rec := func(p model.PlayerID, role model.Role, d float64) model.AttributionRecord {
		return model.AttributionRecord{GameID: ev.GameID, EventIndex: ev.Index, Player: p, Role: role, Delta: d}
	}

	switch ev.Category {
	case model.CategoryTurnover:
		recs := []model.AttributionRecord{
			rec(ev.Primary, model.RolePrimary, orient(delta, ev.Home)),
		}
		// Live-ball turnover: the stealer on the other side is credited the
		// same play, not a split of it.
		if ev.Secondary != 0 {
			recs = append(recs, rec(ev.Secondary, model.RoleSecondary, orient(delta, !ev.Home)))
		}
		return recs

	case model.CategoryFoul:
		recs := []model.AttributionRecord{
			rec(ev.Primary, model.RolePrimary, orient(delta, ev.Home)),
		}
		if ev.Secondary != 0 {
			recs = append(recs, rec(ev.Secondary, model.RoleSecondary, orient(delta, !ev.Home)))
		}
		return recs

	case model.CategoryShotMade:
		if ev.Secondary == 0 {
			return []model.AttributionRecord{rec(ev.Primary, model.RolePrimary, orient(delta, ev.Home))}
		}
		a := assistFactor(shotValue(ev, lk), lk.ORTG(ev.Home))
		return []model.AttributionRecord{
			rec(ev.Primary, model.RolePrimary, (1-a)*orient(delta, ev.Home)),
			rec(ev.Secondary, model.RoleProportional, a*orient(delta, ev.Home)),
		}

	default:
		// Free throws, rebounds, missed shots, steals, violations: the whole
		// delta goes to the acting player.
		return []model.AttributionRecord{rec(ev.Primary, model.RolePrimary, orient(delta, ev.Home))}
	}
}

// compound attributes a multi-event sequence by pattern. The second return
// value reports whether the fallback arm was taken.
func (e *Engine) compound(seq *model.Sequence, evs []model.Event, delta float64, lk model.Lookups) ([]model.AttributionRecord, bool) {
	categories := make([]model.EventCategory, len(evs))
	for i, ev := range evs {
		categories[i] = ev.Category
	}

	switch identify(categories) {
	case patternMissAndRebound:
		// The miss carries the delta; the rebound is the other side of the
		// same possession change and is left out.
		return []model.AttributionRecord{record(evs[0], model.RolePrimary, orient(delta, evs[0].Home))}, false

	case patternOffensiveFoul:
		// The foul row is dropped; the turnover row names the fouler.
		tov := evs[1]
		return []model.AttributionRecord{record(tov, model.RoleBlame, orient(delta, tov.Home))}, false

	case patternShootingFoul:
		return e.shootingFoul(evs, delta, false), false
	case patternShootingFoulMissedFT:
		return e.shootingFoul(evs, delta, true), false

	case patternAndOne:
		return e.andOne(evs, delta, false), false
	case patternAndOneMissedFT:
		return e.andOne(evs, delta, true), false

	case patternPutbackMake, patternPutbackMiss,
		patternPutbackAndOne, patternPutbackFoul:
		return e.putback(evs, delta, lk, false), false
	case patternPutbackAndOneMissedFT, patternPutbackFoulMissedFT:
		return e.putback(evs, delta, lk, true), false
	}

	// Fallback: never drop the delta silently. The final event's primary
	// actor takes the whole change.
	err := &UnknownSequenceError{
		GameID:     seq.GameID,
		Period:     seq.Period,
		Time:       seq.Time,
		Categories: categories,
	}
	e.log.Warn("unrecognized sequence, crediting final actor", zap.Error(err))
	last := evs[len(evs)-1]
	return []model.AttributionRecord{record(last, model.RolePrimary, orient(delta, last.Home))}, true
}

// shootingFoul handles FOUL, FREE_THROW x{1,2,3} sequences, with or without a
// trailing rebound off a missed free throw. The fouler is charged the full
// delta; the shooter is credited it. A trailing rebound's effect is unknown
// and stays unattributed.
func (e *Engine) shootingFoul(evs []model.Event, delta float64, trailingRebound bool) []model.AttributionRecord {
	foul := evs[0]
	credit := evs[len(evs)-1]
	if trailingRebound {
		credit = evs[len(evs)-2]
	}
	return []model.AttributionRecord{
		record(foul, model.RoleBlame, orient(delta, foul.Home)),
		record(credit, model.RolePrimary, orient(delta, credit.Home)),
	}
}

// andOne handles SHOT_MADE, FOUL, FREE_THROW sequences. The shooter and the
// free-throw shooter are the same player; they take the full credit on the
// free-throw row, and the fouler the full blame.
func (e *Engine) andOne(evs []model.Event, delta float64, trailingRebound bool) []model.AttributionRecord {
	foul := evs[1]
	credit := evs[len(evs)-1]
	if trailingRebound {
		credit = evs[len(evs)-2]
	}
	return []model.AttributionRecord{
		record(foul, model.RoleBlame, orient(delta, foul.Home)),
		record(credit, model.RolePrimary, orient(delta, credit.Home)),
	}
}

// putback handles every REBOUND-led sequence. The rebounder is credited a
// share proportional to the quality of the shot the rebound produced,
// including the expected value of any free throws; the shooter takes the
// remainder, and a fouler, if present, the full blame.
func (e *Engine) putback(evs []model.Event, delta float64, lk model.Lookups, trailingRebound bool) []model.AttributionRecord {
	reb := evs[0]

	quality := 0.0
	for _, ev := range evs {
		switch ev.Category {
		case model.CategoryShotMade, model.CategoryShotMissed:
			quality += shotValue(ev, lk)
		case model.CategoryFreeThrow:
			quality += lk.FreeThrowPct(ev.Primary)
		}
	}
	a := assistFactor(quality, lk.ORTG(reb.Home))

	credit := evs[len(evs)-1]
	if trailingRebound {
		credit = evs[len(evs)-2]
	}

	recs := []model.AttributionRecord{
		record(reb, model.RoleProportional, a*orient(delta, reb.Home)),
		record(credit, model.RolePrimary, (1-a)*orient(delta, credit.Home)),
	}
	for _, ev := range evs[1:] {
		if ev.Category == model.CategoryFoul {
			recs = append(recs, record(ev, model.RoleBlame, orient(delta, ev.Home)))
			break
		}
	}
	return recs
}

func record(ev model.Event, role model.Role, delta float64) model.AttributionRecord {
	return model.AttributionRecord{
		GameID:     ev.GameID,
		EventIndex: ev.Index,
		Player:     ev.Primary,
		Role:       role,
		Delta:      delta,
	}
}

// shotValue is the expected value of a shot attempt: attempted points times
// the shooter's field goal percentage from that zone.
func shotValue(ev model.Event, lk model.Lookups) float64 {
	return float64(ev.Points) * lk.ZonePct(ev.Primary, ev.ShotZone)
}

// assistFactor converts an expected shot value and a team offensive rating
// into the credit fraction for the enabling player. Pathological inputs can
// push the raw formula outside [0, 1]; the result is clamped, and a zero
// rating yields zero credit rather than an error.
func assistFactor(quality, ortg float64) float64 {
	if ortg <= 0 {
		return 0
	}
	a := quality*100/ortg - 1
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
