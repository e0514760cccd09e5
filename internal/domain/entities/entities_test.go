package entities

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestIsClockTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"00:00", true},
		{"09:00", true},
		{"14:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:0", false},
		{"09:60", false},
		{"0900", false},
		{"", false},
		{"ab:cd", false},
	}

	for _, tt := range tests {
		if got := IsClockTime(tt.input); got != tt.want {
			t.Errorf("IsClockTime(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTaskDraftValidate(t *testing.T) {
	longName := strings.Repeat("x", MaxTaskNameLength+1)
	longDesc := strings.Repeat("y", MaxDescriptionLength+1)
	maxDesc := strings.Repeat("z", MaxDescriptionLength)

	tests := []struct {
		name    string
		draft   TaskDraft
		wantErr error
	}{
		{
			name:  "valid",
			draft: TaskDraft{Name: "Write report", Importance: ImportanceHigh, EstimatedTime: 60},
		},
		{
			name:    "empty name",
			draft:   TaskDraft{Name: "", EstimatedTime: 30},
			wantErr: ErrInvalidTaskName,
		},
		{
			name:    "name too long",
			draft:   TaskDraft{Name: longName, EstimatedTime: 30},
			wantErr: ErrInvalidTaskName,
		},
		{
			name:  "description at limit",
			draft: TaskDraft{Name: "a", Description: &maxDesc, EstimatedTime: 30},
		},
		{
			name:    "description too long",
			draft:   TaskDraft{Name: "a", Description: &longDesc, EstimatedTime: 30},
			wantErr: ErrDescriptionTooLong,
		},
		{
			name:    "unknown importance",
			draft:   TaskDraft{Name: "a", Importance: "urgent", EstimatedTime: 30},
			wantErr: ErrInvalidImportance,
		},
		{
			name:    "zero estimate",
			draft:   TaskDraft{Name: "a", EstimatedTime: 0},
			wantErr: ErrInvalidEstimate,
		},
		{
			name:    "estimate over a day",
			draft:   TaskDraft{Name: "a", EstimatedTime: MaxEstimatedMinutes + 1},
			wantErr: ErrInvalidEstimate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate(): got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskDraftNormalizeDefaultsImportance(t *testing.T) {
	d := TaskDraft{Name: "a", EstimatedTime: 10}
	d.Normalize()
	if d.Importance != ImportanceMedium {
		t.Errorf("Normalize(): importance got %q, want %q", d.Importance, ImportanceMedium)
	}

	d = TaskDraft{Name: "a", Importance: ImportanceLow, EstimatedTime: 10}
	d.Normalize()
	if d.Importance != ImportanceLow {
		t.Errorf("Normalize() overwrote importance: got %q", d.Importance)
	}
}

func TestScheduleItemValidateTimes(t *testing.T) {
	tests := []struct {
		name    string
		item    ScheduleItem
		wantErr error
	}{
		{name: "valid", item: ScheduleItem{StartTime: "09:00", EndTime: "10:30"}},
		{name: "bad start", item: ScheduleItem{StartTime: "9:00", EndTime: "10:30"}, wantErr: ErrInvalidClockTime},
		{name: "bad end", item: ScheduleItem{StartTime: "09:00", EndTime: "25:00"}, wantErr: ErrInvalidClockTime},
		{name: "equal times", item: ScheduleItem{StartTime: "09:00", EndTime: "09:00"}, wantErr: ErrInvalidTimeRange},
		{name: "inverted", item: ScheduleItem{StartTime: "11:00", EndTime: "09:00"}, wantErr: ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.item.ValidateTimes(); err != tt.wantErr {
				t.Errorf("ValidateTimes(): got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleConsistent(t *testing.T) {
	item := ScheduleItem{Name: "a", StartTime: "09:00", EndTime: "10:00"}

	tests := []struct {
		name     string
		schedule Schedule
		want     bool
	}{
		{name: "possible with items", schedule: Schedule{Items: []ScheduleItem{item}, IsPossible: true}, want: true},
		{name: "impossible with error", schedule: Schedule{IsPossible: false, Error: "too many tasks"}, want: true},
		{name: "impossible empty no error", schedule: Schedule{IsPossible: false}, want: true},
		{name: "impossible with items no error", schedule: Schedule{Items: []ScheduleItem{item}, IsPossible: false}, want: false},
		{name: "impossible with items and error", schedule: Schedule{Items: []ScheduleItem{item}, IsPossible: false, Error: "partial"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.schedule.Consistent(); got != tt.want {
				t.Errorf("Consistent(): got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScheduleCloneIsDeep(t *testing.T) {
	s := Schedule{Items: []ScheduleItem{{Name: "a", StartTime: "09:00", EndTime: "10:00"}}, IsPossible: true}
	c := s.Clone()
	c.Items[0].Name = "b"
	if s.Items[0].Name != "a" {
		t.Error("Clone() shares the items slice with the original")
	}
}

func TestOwnerKey(t *testing.T) {
	id := uuid.New()

	local := LocalOwner(id)
	if !local.IsLocal() {
		t.Error("LocalOwner(): IsLocal() returned false")
	}

	remote := RemoteOwner(id)
	if remote.IsLocal() {
		t.Error("RemoteOwner(): IsLocal() returned true")
	}

	// Same uuid, different scope, must be distinct keys.
	if local == remote {
		t.Error("local and remote keys with the same id compare equal")
	}

	if local.String() == remote.String() {
		t.Error("local and remote keys render identically")
	}
}
