// Package classify maps raw play-by-play rows onto the closed event
// taxonomy the attribution engine understands.
package classify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// NBA event-message types as they appear in the cleaned play-by-play table.
const (
	msgFieldGoalMade   = 1
	msgFieldGoalMissed = 2
	msgFreeThrow       = 3
	msgRebound         = 4
	msgTurnover        = 5
	msgFoul            = 6
	msgViolation       = 7
	msgSubstitution    = 8
	msgTimeout         = 9
	msgJumpBall        = 10
	msgEjection        = 11
	msgPeriodBegin     = 12
	msgPeriodEnd       = 13
	msgReplay          = 18
)

// ClassificationError reports a raw row that cannot be mapped to a known
// event category.
type ClassificationError struct {
	GameID  string
	Index   int
	MsgType int
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("game %s row %d: unknown event message type %d", e.GameID, e.Index, e.MsgType)
}

// Classify maps one raw row to a classified Event. index is the row's
// position within the game's event table.
func Classify(raw model.RawEvent, index int) (model.Event, error) {
	var cat model.EventCategory
	switch raw.MsgType {
	case msgFieldGoalMade:
		cat = model.CategoryShotMade
	case msgFieldGoalMissed:
		cat = model.CategoryShotMissed
	case msgFreeThrow:
		cat = model.CategoryFreeThrow
	case msgRebound:
		cat = model.CategoryRebound
	case msgTurnover:
		cat = model.CategoryTurnover
	case msgFoul:
		cat = model.CategoryFoul
	case msgViolation:
		cat = model.CategoryViolation
	case msgSubstitution:
		cat = model.CategorySubstitution
	case msgTimeout, msgJumpBall, msgEjection, msgPeriodBegin, msgPeriodEnd, msgReplay:
		cat = model.CategoryOther
	default:
		return model.Event{}, &ClassificationError{GameID: raw.GameID, Index: index, MsgType: raw.MsgType}
	}

	ev := model.Event{
		GameID:   raw.GameID,
		Index:    index,
		Period:   raw.Period,
		Time:     raw.Time,
		Category: cat,
		Primary:  raw.Player1,
		Points:   raw.Points,
		ShotZone: raw.ShotZone,
		Home:     raw.Home,
		WinProb:  raw.WinProb,
	}

	// Secondary actor arity depends on the category: assister on makes,
	// stealer on turnovers, fouled player on fouls. Other categories carry
	// no secondary actor even when the raw row has one.
	switch cat {
	case model.CategoryShotMade, model.CategoryTurnover, model.CategoryFoul:
		ev.Secondary = raw.Player2
	}

	return ev, nil
}

// Game classifies every row of a raw game, applying the drop policy for
// unmappable rows: each is logged and excluded, never fatal. Returns the
// classified events in input order and the count of dropped rows.
func Game(log *zap.Logger, raw *model.RawGame) ([]model.Event, int) {
	events := make([]model.Event, 0, len(raw.Rows))
	dropped := 0
	for i, row := range raw.Rows {
		ev, err := Classify(row, i)
		if err != nil {
			dropped++
			log.Warn("dropping unclassifiable play-by-play row",
				zap.String("game", raw.GameID),
				zap.Int("row", i),
				zap.Int("msg_type", row.MsgType),
			)
			continue
		}
		events = append(events, ev)
	}
	return events, dropped
}
