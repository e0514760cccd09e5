package services

import (
	"context"
	"fmt"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/ports"
	"github.com/daywise/core/internal/taskcache"
)

// TaskService is the synchronous facade over the optimistic mutation
// coordinator. All task-list access goes through it; nothing mutates the
// visible list directly.
type TaskService struct {
	coord  *taskcache.Coordinator
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(coord *taskcache.Coordinator, logger *logger.Logger) *TaskService {
	return &TaskService{
		coord:  coord,
		logger: logger,
	}
}

// List returns the current known tasks for the owner key.
func (s *TaskService) List(ctx context.Context, owner entities.OwnerKey) []entities.Task {
	return s.coord.List(ctx, owner)
}

// Create adds a task and waits for the mutation to settle. On persistence
// failure the optimistic entry has already been rolled back by the time the
// error is returned.
func (s *TaskService) Create(ctx context.Context, owner entities.OwnerKey, req ports.CreateTaskRequest) (*entities.Task, error) {
	m, err := s.coord.Create(ctx, owner, req.Draft())
	if err != nil {
		return nil, err
	}

	state, err := m.Wait(ctx)
	if err != nil {
		if state == taskcache.StateRolledBack {
			return nil, fmt.Errorf("create task: %w", err)
		}
		return nil, err
	}

	task := m.Task()
	s.logger.Infow("Task created", "owner", owner.String(), "task_id", task.ID, "name", task.Name)
	return task, nil
}

// Update replaces a task by id and waits for the mutation to settle.
func (s *TaskService) Update(ctx context.Context, owner entities.OwnerKey, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	draft := req.Draft()
	task := entities.Task{
		ID:            id,
		Name:          draft.Name,
		Description:   draft.Description,
		Deadline:      draft.Deadline,
		Importance:    draft.Importance,
		EstimatedTime: draft.EstimatedTime,
	}

	m, err := s.coord.Update(ctx, owner, task)
	if err != nil {
		return nil, err
	}

	state, err := m.Wait(ctx)
	if err != nil {
		if state == taskcache.StateRolledBack {
			return nil, fmt.Errorf("update task: %w", err)
		}
		return nil, err
	}

	updated := m.Task()
	s.logger.Infow("Task updated", "owner", owner.String(), "task_id", updated.ID, "name", updated.Name)
	return updated, nil
}

// Delete removes a task by id and waits for the mutation to settle. Deleting
// an absent id is not an error.
func (s *TaskService) Delete(ctx context.Context, owner entities.OwnerKey, id string) error {
	m, err := s.coord.Remove(ctx, owner, id)
	if err != nil {
		return err
	}

	state, err := m.Wait(ctx)
	if err != nil {
		if state == taskcache.StateRolledBack {
			return fmt.Errorf("delete task: %w", err)
		}
		return err
	}

	s.logger.Infow("Task deleted", "owner", owner.String(), "task_id", id)
	return nil
}
