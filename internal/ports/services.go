package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/scheduling"
)

// Planner is the external scheduler: an opaque function from a task list to a
// raw, untrusted schedule payload. The payload must pass through the
// scheduling validator before anything downstream may read it.
type Planner interface {
	Suggest(ctx context.Context, req scheduling.Request) (json.RawMessage, error)
}

// TaskService manages the visible task list for an owner key.
type TaskService interface {
	List(ctx context.Context, owner entities.OwnerKey) []entities.Task
	Create(ctx context.Context, owner entities.OwnerKey, req CreateTaskRequest) (*entities.Task, error)
	Update(ctx context.Context, owner entities.OwnerKey, id string, req UpdateTaskRequest) (*entities.Task, error)
	Delete(ctx context.Context, owner entities.OwnerKey, id string) error
}

// ScheduleService turns an owner's task list into a validated, reconciled
// schedule and tracks the current one until the task list changes.
type ScheduleService interface {
	Generate(ctx context.Context, owner entities.OwnerKey) (entities.Schedule, error)
	Current(owner entities.OwnerKey) (entities.Schedule, error)
	EditItem(owner entities.OwnerKey, itemID, startTime, endTime string) (entities.Schedule, error)
	Invalidate(owner entities.OwnerKey)
}

// Identity is what the auth layer resolves a token to.
type Identity struct {
	Owner     entities.OwnerKey `json:"owner"`
	Email     string            `json:"email,omitempty"`
	Ephemeral bool              `json:"ephemeral"`
}

// IdentityEventKind classifies identity changes pushed to subscribers.
type IdentityEventKind string

const (
	IdentitySignedIn  IdentityEventKind = "signed_in"
	IdentitySignedOut IdentityEventKind = "signed_out"
)

// IdentityEvent is delivered asynchronously whenever an identity changes.
type IdentityEvent struct {
	Kind     IdentityEventKind
	Identity Identity
}

// AuthService issues and validates identities. Anonymous yields an ephemeral
// guest identity whose tasks stay local-only.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Anonymous(ctx context.Context) (*AuthResponse, error)
	Logout(ctx context.Context, identity Identity) error
	ValidateToken(tokenString string) (*Identity, error)
	Subscribe(fn func(IdentityEvent))
}

// Request/Response types

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	ExpiresIn   int64          `json:"expiresIn"`
	Ephemeral   bool           `json:"ephemeral"`
	User        *entities.User `json:"user,omitempty"`
}

type CreateTaskRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Description   *string             `json:"description" validate:"omitempty,max=500"`
	Deadline      *time.Time          `json:"deadline"`
	Importance    entities.Importance `json:"importance" validate:"omitempty,oneof=high medium low"`
	EstimatedTime int                 `json:"estimatedTime" validate:"required,min=1,max=1440"`
}

// Draft converts the request into a normalized task draft.
func (r CreateTaskRequest) Draft() entities.TaskDraft {
	d := entities.TaskDraft{
		Name:          r.Name,
		Description:   r.Description,
		Deadline:      r.Deadline,
		Importance:    r.Importance,
		EstimatedTime: r.EstimatedTime,
	}
	d.Normalize()
	return d
}

// UpdateTaskRequest is a full replace of the user-provided fields, matching
// the store's replace-by-id semantics.
type UpdateTaskRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Description   *string             `json:"description" validate:"omitempty,max=500"`
	Deadline      *time.Time          `json:"deadline"`
	Importance    entities.Importance `json:"importance" validate:"omitempty,oneof=high medium low"`
	EstimatedTime int                 `json:"estimatedTime" validate:"required,min=1,max=1440"`
}

// Draft converts the request into a normalized task draft.
func (r UpdateTaskRequest) Draft() entities.TaskDraft {
	d := entities.TaskDraft{
		Name:          r.Name,
		Description:   r.Description,
		Deadline:      r.Deadline,
		Importance:    r.Importance,
		EstimatedTime: r.EstimatedTime,
	}
	d.Normalize()
	return d
}

type EditScheduleItemRequest struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
