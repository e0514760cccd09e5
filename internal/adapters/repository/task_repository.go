// Package repository implements the persistence ports on PostgreSQL via sqlx.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, ownerID uuid.UUID, draft entities.TaskDraft) (*entities.Task, error) {
	query := `
		INSERT INTO tasks (id, owner_id, name, description, deadline, importance, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	task := &entities.Task{
		ID:            uuid.NewString(),
		Name:          draft.Name,
		Description:   draft.Description,
		Deadline:      draft.Deadline,
		Importance:    draft.Importance,
		EstimatedTime: draft.EstimatedTime,
		OwnerID:       &ownerID,
	}

	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		task.ID, ownerID, task.Name, task.Description,
		task.Deadline, task.Importance, task.EstimatedTime,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	task.CreatedAt = &createdAt
	task.UpdatedAt = &updatedAt
	return task, nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, ownerID uuid.UUID, id string) (*entities.Task, error) {
	query := `
		SELECT id, owner_id, name, description, deadline, importance, estimated_minutes, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, ownerID uuid.UUID, task *entities.Task) (*entities.Task, error) {
	query := `
		UPDATE tasks
		SET name = $3, description = $4, deadline = $5, importance = $6,
			estimated_minutes = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at`

	updated := *task
	updated.OwnerID = &ownerID

	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		task.ID, ownerID, task.Name, task.Description,
		task.Deadline, task.Importance, task.EstimatedTime,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	updated.CreatedAt = &createdAt
	updated.UpdatedAt = &updatedAt
	return &updated, nil
}

// Delete removes a task by id. Deleting an absent id is not an error.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, ownerID uuid.UUID, id string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Task, error) {
	query := `
		SELECT id, owner_id, name, description, deadline, importance, estimated_minutes, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at ASC`

	tasks := []entities.Task{}
	err := r.db.SelectContext(ctx, &tasks, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}
