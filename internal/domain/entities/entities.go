package entities

import (
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrScheduleItemNotFound = errors.New("schedule item not found")
	ErrEmptyTaskList        = errors.New("task list is empty")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidImportance    = errors.New("invalid importance")
	ErrInvalidTaskName      = errors.New("task name must be between 1 and 100 characters")
	ErrDescriptionTooLong   = errors.New("task description must not exceed 500 characters")
	ErrInvalidEstimate      = errors.New("estimated time must be between 1 and 1440 minutes")
	ErrInvalidClockTime     = errors.New("time must be in 24-hour HH:MM format")
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrGenerationInProgress = errors.New("schedule generation already in progress")
	ErrNoCurrentSchedule    = errors.New("no schedule has been generated")
)

const (
	// MaxTaskNameLength is the longest task name accepted.
	MaxTaskNameLength = 100
	// MaxDescriptionLength is the longest task description accepted.
	MaxDescriptionLength = 500
	// MaxEstimatedMinutes is one day's worth of minutes.
	MaxEstimatedMinutes = 1440
)

// clockRE matches zero-padded 24-hour clock times. Because both sides of the
// contract are fixed-width, lexicographic comparison of matching strings is
// equivalent to chronological comparison.
var clockRE = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// IsClockTime reports whether s is a valid HH:MM clock time.
func IsClockTime(s string) bool {
	return clockRE.MatchString(s)
}

// Importance ranks how much a task matters when the planner has to choose.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// IsValid reports whether the importance is one of the known levels.
func (i Importance) IsValid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	default:
		return false
	}
}

// OwnerScope distinguishes local-only (guest) task lists from account-backed ones.
type OwnerScope string

const (
	OwnerScopeLocal  OwnerScope = "local"
	OwnerScopeRemote OwnerScope = "remote"
)

// OwnerKey is the partition identity a task list lives under. It is an
// explicit two-variant key rather than a nullable user id so guest and
// account state can never cross-contaminate.
type OwnerKey struct {
	Scope OwnerScope `json:"scope"`
	ID    uuid.UUID  `json:"id"`
}

// LocalOwner returns the owner key for a guest session.
func LocalOwner(sessionID uuid.UUID) OwnerKey {
	return OwnerKey{Scope: OwnerScopeLocal, ID: sessionID}
}

// RemoteOwner returns the owner key for a signed-in account.
func RemoteOwner(userID uuid.UUID) OwnerKey {
	return OwnerKey{Scope: OwnerScopeRemote, ID: userID}
}

// IsLocal reports whether tasks under this key must never reach the
// persistent store.
func (k OwnerKey) IsLocal() bool {
	return k.Scope == OwnerScopeLocal
}

func (k OwnerKey) String() string {
	return string(k.Scope) + ":" + k.ID.String()
}

// Task is a unit of work the user wants placed into a day.
type Task struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Deadline      *time.Time `json:"deadline,omitempty" db:"deadline"`
	Importance    Importance `json:"importance" db:"importance"`
	EstimatedTime int        `json:"estimatedTime" db:"estimated_minutes"`
	OwnerID       *uuid.UUID `json:"ownerId,omitempty" db:"owner_id"`
	CreatedAt     *time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// TaskDraft is the user-provided part of a task, before the store assigns
// identity and timestamps.
type TaskDraft struct {
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Importance    Importance `json:"importance"`
	EstimatedTime int        `json:"estimatedTime"`
}

// Normalize applies contract defaults to the draft.
func (d *TaskDraft) Normalize() {
	if d.Importance == "" {
		d.Importance = ImportanceMedium
	}
}

// Validate checks the draft against the task contract.
func (d TaskDraft) Validate() error {
	n := utf8.RuneCountInString(d.Name)
	if n == 0 || n > MaxTaskNameLength {
		return ErrInvalidTaskName
	}
	if d.Description != nil && utf8.RuneCountInString(*d.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if d.Importance != "" && !d.Importance.IsValid() {
		return ErrInvalidImportance
	}
	if d.EstimatedTime < 1 || d.EstimatedTime > MaxEstimatedMinutes {
		return ErrInvalidEstimate
	}
	return nil
}

// Draft projects the task back to its user-provided fields.
func (t Task) Draft() TaskDraft {
	return TaskDraft{
		Name:          t.Name,
		Description:   t.Description,
		Deadline:      t.Deadline,
		Importance:    t.Importance,
		EstimatedTime: t.EstimatedTime,
	}
}

// Validate checks the task against the task contract.
func (t Task) Validate() error {
	return t.Draft().Validate()
}

// IsLocalOnly reports whether the task has no owning account and must not be
// sent to the persistent store.
func (t Task) IsLocalOnly() bool {
	return t.OwnerID == nil
}

// ScheduleItem is one placed task within a generated schedule. Times are
// same-day HH:MM clock strings; the id is assigned client-side by the
// reconciler, never by the planner.
type ScheduleItem struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ValidateTimes checks the item's time fields against the contract: HH:MM
// format and start strictly before end.
func (si ScheduleItem) ValidateTimes() error {
	if !IsClockTime(si.StartTime) || !IsClockTime(si.EndTime) {
		return ErrInvalidClockTime
	}
	if si.StartTime >= si.EndTime {
		return ErrInvalidTimeRange
	}
	return nil
}

// Schedule is the result of one generation request. It exists only in memory
// and is discarded whenever its source tasks change.
type Schedule struct {
	Items      []ScheduleItem `json:"schedule"`
	IsPossible bool           `json:"isPossible"`
	Error      string         `json:"error,omitempty"`
}

// Consistent reports whether the schedule honors the cross-field invariant:
// "not possible" with no error implies an empty schedule.
func (s Schedule) Consistent() bool {
	if !s.IsPossible && s.Error == "" && len(s.Items) > 0 {
		return false
	}
	return true
}

// Clone returns a deep copy so callers can mutate freely.
func (s Schedule) Clone() Schedule {
	out := s
	out.Items = make([]ScheduleItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// User is a registered account.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	DisplayName  *string    `json:"displayName,omitempty" db:"display_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}
