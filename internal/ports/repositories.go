package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/daywise/core/internal/domain/entities"
)

// TaskRepository defines the persistent per-owner task store. Implementations
// assign permanent ids and server timestamps on create; local-only (guest)
// tasks never reach this interface.
type TaskRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, draft entities.TaskDraft) (*entities.Task, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id string) (*entities.Task, error)
	Update(ctx context.Context, ownerID uuid.UUID, task *entities.Task) (*entities.Task, error)
	// Delete is idempotent: deleting an absent id is not an error.
	Delete(ctx context.Context, ownerID uuid.UUID, id string) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Task, error)
}

// UserRepository defines account persistence for the identity layer.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
