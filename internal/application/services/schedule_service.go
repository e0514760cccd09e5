package services

import (
	"context"
	"sync"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/notify"
	"github.com/daywise/core/internal/ports"
	"github.com/daywise/core/internal/scheduling"
)

// ScheduleService drives schedule generation: it projects the owner's tasks
// into the planner's input contract, funnels the untrusted response through
// the validator, and reconciles the result into editable state. At most one
// generation runs per owner at a time, and any task mutation discards the
// owner's current schedule.
type ScheduleService struct {
	planner   ports.Planner
	validator *scheduling.Validator
	tasks     ports.TaskService
	notifier  *notify.Notifier
	logger    *logger.Logger

	mu       sync.Mutex
	inFlight map[entities.OwnerKey]bool
	current  map[entities.OwnerKey]entities.Schedule
}

// NewScheduleService creates a new schedule service
func NewScheduleService(planner ports.Planner, validator *scheduling.Validator, tasks ports.TaskService, notifier *notify.Notifier, logger *logger.Logger) *ScheduleService {
	return &ScheduleService{
		planner:   planner,
		validator: validator,
		tasks:     tasks,
		notifier:  notifier,
		logger:    logger,
		inFlight:  make(map[entities.OwnerKey]bool),
		current:   make(map[entities.OwnerKey]entities.Schedule),
	}
}

// Generate produces a new schedule for the owner's current task list.
// Planner and validation failures do not propagate: they collapse to the
// canonical error schedule, which is returned like any other result. Only
// empty input and a concurrent generation are reported as errors.
func (s *ScheduleService) Generate(ctx context.Context, owner entities.OwnerKey) (entities.Schedule, error) {
	s.mu.Lock()
	if s.inFlight[owner] {
		s.mu.Unlock()
		return entities.Schedule{}, entities.ErrGenerationInProgress
	}
	s.inFlight[owner] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, owner)
		s.mu.Unlock()
	}()

	// The list is read under the guard so a mutation cannot slip between the
	// snapshot and the planner call.
	tasks := s.tasks.List(ctx, owner)

	req, err := scheduling.BuildRequest(tasks)
	if err != nil {
		s.notifier.Publish(owner, notify.LevelWarn, "No Tasks", "Add some tasks before generating a schedule.")
		return entities.Schedule{}, err
	}

	s.mu.Lock()
	// Clear the previous schedule up front so a failed generation cannot
	// leave a stale one on display.
	delete(s.current, owner)
	s.mu.Unlock()

	var schedule entities.Schedule
	raw, err := s.planner.Suggest(ctx, req)
	if err != nil {
		s.logger.Errorw("Planner call failed", "owner", owner.String(), "error", err)
		schedule = scheduling.Failure("Failed to generate schedule. Please try again.")
	} else {
		schedule = s.validator.Validate(raw)
	}

	schedule = scheduling.Reconcile(schedule)

	s.mu.Lock()
	s.current[owner] = schedule
	s.mu.Unlock()

	s.announce(owner, schedule)
	return schedule, nil
}

func (s *ScheduleService) announce(owner entities.OwnerKey, schedule entities.Schedule) {
	switch {
	case schedule.Error != "":
		s.notifier.Publish(owner, notify.LevelError, "Scheduling Error", schedule.Error)
	case schedule.IsPossible && len(schedule.Items) > 0:
		s.notifier.Publish(owner, notify.LevelInfo, "Schedule Generated", "Your optimal schedule is ready!")
	case !schedule.IsPossible:
		s.notifier.Publish(owner, notify.LevelWarn, "Scheduling Conflict", "Could not fit all tasks in one day.")
	default:
		// isPossible with zero items is permitted by the contract; treat it
		// as an empty result, not a failure.
		s.notifier.Publish(owner, notify.LevelInfo, "Schedule Empty", "No tasks were scheduled.")
	}
}

// Current returns the owner's most recent schedule, if one survives.
func (s *ScheduleService) Current(owner entities.OwnerKey) (entities.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, ok := s.current[owner]
	if !ok {
		return entities.Schedule{}, entities.ErrNoCurrentSchedule
	}
	return schedule.Clone(), nil
}

// EditItem adjusts one item's times within the current schedule, addressed by
// its reconciler id.
func (s *ScheduleService) EditItem(owner entities.OwnerKey, itemID, startTime, endTime string) (entities.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, ok := s.current[owner]
	if !ok {
		return entities.Schedule{}, entities.ErrNoCurrentSchedule
	}

	edited, err := scheduling.ApplyEdit(schedule, itemID, startTime, endTime)
	if err != nil {
		return entities.Schedule{}, err
	}

	s.current[owner] = edited
	return edited.Clone(), nil
}

// Invalidate discards the owner's current schedule. Wired as the
// coordinator's post-mutation hook: schedules are never patched in place when
// their source tasks change.
func (s *ScheduleService) Invalidate(owner entities.OwnerKey) {
	s.mu.Lock()
	delete(s.current, owner)
	s.mu.Unlock()
}

// Forget drops all schedule state for an owner, used on sign-out.
func (s *ScheduleService) Forget(owner entities.OwnerKey) {
	s.mu.Lock()
	delete(s.current, owner)
	delete(s.inFlight, owner)
	s.mu.Unlock()
}
