package impact

import (
	"fmt"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// UnknownSequenceError reports a sequence whose event-category pattern is not
// in the taxonomy. The engine recovers by crediting the full delta to the
// final event's primary actor; the error is logged, never fatal.
type UnknownSequenceError struct {
	GameID     string
	Period     int
	Time       int
	Categories []model.EventCategory
}

func (e *UnknownSequenceError) Error() string {
	return fmt.Sprintf("game %s: unrecognized sequence %v at period %d time %d",
		e.GameID, e.Categories, e.Period, e.Time)
}

// MissingActorError reports an event whose category requires a primary actor
// but has none. The event is skipped and logged; the game continues.
type MissingActorError struct {
	GameID   string
	Index    int
	Category model.EventCategory
}

func (e *MissingActorError) Error() string {
	return fmt.Sprintf("game %s row %d: %s event has no primary actor",
		e.GameID, e.Index, e.Category)
}
