// Package sequence partitions a classified, time-ordered event stream into
// sequences: maximal runs of consecutive events sharing one
// (period, elapsed time) stamp.
package sequence

import (
	"fmt"

	"github.com/courtside/go-spa-metrics/internal/model"
)

// OrderingViolationError reports input events that break the total order
// (period, elapsed time, row order). The grouper never sorts; out-of-order
// input makes attribution unsafe for the whole game.
type OrderingViolationError struct {
	GameID string
	Index  int // row index of the offending event
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("game %s: event at row %d is out of order", e.GameID, e.Index)
}

// Group walks the event stream once and emits one Sequence per distinct
// (period, time) group, in chronological order. It is a pure function of its
// input: no state survives between calls, so it can be re-run per game.
func Group(events []model.Event) ([]model.Sequence, error) {
	if len(events) == 0 {
		return nil, nil
	}

	seqs := make([]model.Sequence, 0, len(events)/2+1)
	cur := model.Sequence{
		GameID: events[0].GameID,
		Period: events[0].Period,
		Time:   events[0].Time,
		Events: []model.Event{events[0]},
	}

	for _, ev := range events[1:] {
		if ev.Period < cur.Period || (ev.Period == cur.Period && ev.Time < cur.Time) {
			return nil, &OrderingViolationError{GameID: ev.GameID, Index: ev.Index}
		}
		if ev.Period == cur.Period && ev.Time == cur.Time {
			cur.Events = append(cur.Events, ev)
			continue
		}
		seqs = append(seqs, cur)
		cur = model.Sequence{
			GameID: ev.GameID,
			Period: ev.Period,
			Time:   ev.Time,
			Events: []model.Event{ev},
		}
	}
	seqs = append(seqs, cur)

	return seqs, nil
}
