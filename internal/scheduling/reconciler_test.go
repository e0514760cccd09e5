package scheduling

import (
	"testing"

	"github.com/daywise/core/internal/domain/entities"
)

func TestReconcileAssignsDistinctIDs(t *testing.T) {
	s := entities.Schedule{
		Items: []entities.ScheduleItem{
			{Name: "a", StartTime: "09:00", EndTime: "10:00"},
			{Name: "b", StartTime: "10:00", EndTime: "11:00"},
			{Name: "c", StartTime: "11:00", EndTime: "12:00"},
		},
		IsPossible: true,
	}

	got := Reconcile(s)

	seen := make(map[string]bool)
	for i, item := range got.Items {
		if item.ID == "" {
			t.Errorf("item %d: no id assigned", i)
		}
		if seen[item.ID] {
			t.Errorf("item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = true
	}

	// Input order and everything but ids must survive untouched.
	for i := range s.Items {
		if got.Items[i].Name != s.Items[i].Name ||
			got.Items[i].StartTime != s.Items[i].StartTime ||
			got.Items[i].EndTime != s.Items[i].EndTime {
			t.Errorf("item %d mutated beyond id assignment: %+v", i, got.Items[i])
		}
	}

	// The input itself is not modified.
	if s.Items[0].ID != "" {
		t.Error("Reconcile mutated its input")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	s := Reconcile(entities.Schedule{
		Items: []entities.ScheduleItem{
			{Name: "a", StartTime: "09:00", EndTime: "10:00"},
		},
		IsPossible: true,
	})

	again := Reconcile(s)
	if again.Items[0].ID != s.Items[0].ID {
		t.Errorf("second Reconcile changed id: %q -> %q", s.Items[0].ID, again.Items[0].ID)
	}
}

func TestApplyEdit(t *testing.T) {
	base := Reconcile(entities.Schedule{
		Items: []entities.ScheduleItem{
			{Name: "a", StartTime: "09:00", EndTime: "10:00"},
			{Name: "b", StartTime: "10:00", EndTime: "11:00"},
		},
		IsPossible: true,
	})
	target := base.Items[1].ID

	got, err := ApplyEdit(base, target, "13:00", "14:30")
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}

	if got.Items[1].StartTime != "13:00" || got.Items[1].EndTime != "14:30" {
		t.Errorf("edited item times: got %s-%s", got.Items[1].StartTime, got.Items[1].EndTime)
	}
	if got.Items[1].ID != target || got.Items[1].Name != "b" {
		t.Errorf("edit changed identity: %+v", got.Items[1])
	}
	if got.Items[0] != base.Items[0] {
		t.Errorf("edit touched unrelated item: %+v", got.Items[0])
	}
	if base.Items[1].StartTime != "10:00" {
		t.Error("ApplyEdit mutated its input")
	}
}

func TestApplyEditValidation(t *testing.T) {
	base := Reconcile(entities.Schedule{
		Items:      []entities.ScheduleItem{{Name: "a", StartTime: "09:00", EndTime: "10:00"}},
		IsPossible: true,
	})
	id := base.Items[0].ID

	if _, err := ApplyEdit(base, id, "9:00", "10:00"); err != entities.ErrInvalidClockTime {
		t.Errorf("bad format: got %v, want ErrInvalidClockTime", err)
	}
	if _, err := ApplyEdit(base, id, "11:00", "10:00"); err != entities.ErrInvalidTimeRange {
		t.Errorf("inverted range: got %v, want ErrInvalidTimeRange", err)
	}
	if _, err := ApplyEdit(base, "missing", "09:00", "10:00"); err != entities.ErrScheduleItemNotFound {
		t.Errorf("unknown id: got %v, want ErrScheduleItemNotFound", err)
	}
}

func TestApplyEditAllowsOverlapWithNeighbors(t *testing.T) {
	base := Reconcile(entities.Schedule{
		Items: []entities.ScheduleItem{
			{Name: "a", StartTime: "09:00", EndTime: "10:00"},
			{Name: "b", StartTime: "10:00", EndTime: "11:00"},
		},
		IsPossible: true,
	})

	// Overlapping the neighbor is the user's call; only the edited item's own
	// range is checked.
	if _, err := ApplyEdit(base, base.Items[0].ID, "09:30", "10:30"); err != nil {
		t.Errorf("overlapping edit rejected: %v", err)
	}
}
