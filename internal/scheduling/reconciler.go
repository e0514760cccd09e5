package scheduling

import (
	"github.com/google/uuid"

	"github.com/daywise/core/internal/domain/entities"
)

// Reconcile attaches a stable unique id to every item that does not already
// carry one, in input order, so later in-place edits can target items without
// relying on array position. Items that already have ids keep them, which
// makes the operation idempotent.
func Reconcile(s entities.Schedule) entities.Schedule {
	out := s.Clone()
	for i := range out.Items {
		if out.Items[i].ID == "" {
			out.Items[i].ID = uuid.NewString()
		}
	}
	return out
}

// ApplyEdit replaces exactly one item's times, addressed by reconciler id.
// The new times must be well-formed HH:MM with start before end; consistency
// with the other items' intervals is deliberately not re-checked here.
func ApplyEdit(s entities.Schedule, id, startTime, endTime string) (entities.Schedule, error) {
	edited := entities.ScheduleItem{StartTime: startTime, EndTime: endTime}
	if err := edited.ValidateTimes(); err != nil {
		return entities.Schedule{}, err
	}

	out := s.Clone()
	for i := range out.Items {
		if out.Items[i].ID == id {
			out.Items[i].StartTime = startTime
			out.Items[i].EndTime = endTime
			return out, nil
		}
	}
	return entities.Schedule{}, entities.ErrScheduleItemNotFound
}
