// Package taskcache owns the visible task list per owner key and wraps every
// mutation in an optimistic apply / persist / rollback cycle. The cache is a
// latency hedge, not the system of record: after every settle the owner's
// list is refetched from the repository, which is the convergence point that
// guarantees eventual consistency regardless of completion order.
package taskcache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/notify"
	"github.com/daywise/core/internal/ports"
)

// State is the lifecycle of one mutation instance.
type State string

const (
	StatePending    State = "pending"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// tempIDPrefix marks client-assigned ids that are awaiting server
// confirmation. Temporary ids are never persisted.
const tempIDPrefix = "temp-"

// IsTemporaryID reports whether the id was synthesized for an optimistic
// insert and not yet confirmed by the store.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Mutation tracks a single optimistic mutation from Pending to Committed or
// RolledBack. Mutations are not cancellable once issued.
type Mutation struct {
	done chan struct{}

	mu    sync.Mutex
	state State
	task  *entities.Task
	err   error
}

func newMutation() *Mutation {
	return &Mutation{done: make(chan struct{}), state: StatePending}
}

func (m *Mutation) settle(state State, task *entities.Task, err error) {
	m.mu.Lock()
	m.state = state
	m.task = task
	m.err = err
	m.mu.Unlock()
	close(m.done)
}

// State returns the mutation's current state.
func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Task returns the settled task, if any. The server-confirmed version for
// committed creates and updates, nil for deletes and rollbacks.
func (m *Mutation) Task() *entities.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task
}

// Wait blocks until the mutation settles or the context is done. The
// underlying persistence attempt continues either way.
func (m *Mutation) Wait(ctx context.Context) (State, error) {
	select {
	case <-m.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.state, m.err
	case <-ctx.Done():
		return StatePending, ctx.Err()
	}
}

// ownerCache is the visible task list for one owner key. Its mutex serializes
// snapshot capture and rollback application, so overlapping mutations observe
// strict start order.
type ownerCache struct {
	mu     sync.Mutex
	loaded bool
	tasks  []entities.Task
}

// Coordinator applies mutations to the visible list immediately and
// reconciles them with the repository as persistence settles.
type Coordinator struct {
	repo     ports.TaskRepository
	notifier *notify.Notifier
	logger   *logger.Logger

	invalidateMu sync.RWMutex
	invalidate   func(entities.OwnerKey)

	mu     sync.Mutex
	owners map[entities.OwnerKey]*ownerCache
}

// New creates a coordinator over the given repository.
func New(repo ports.TaskRepository, notifier *notify.Notifier, log *logger.Logger) *Coordinator {
	return &Coordinator{
		repo:     repo,
		notifier: notifier,
		logger:   log,
		owners:   make(map[entities.OwnerKey]*ownerCache),
	}
}

// OnInvalidate registers the schedule-invalidation hook called after every
// successful mutation.
func (c *Coordinator) OnInvalidate(fn func(entities.OwnerKey)) {
	c.invalidateMu.Lock()
	c.invalidate = fn
	c.invalidateMu.Unlock()
}

func (c *Coordinator) signalInvalidate(owner entities.OwnerKey) {
	c.invalidateMu.RLock()
	fn := c.invalidate
	c.invalidateMu.RUnlock()
	if fn != nil {
		fn(owner)
	}
}

func (c *Coordinator) cache(owner entities.OwnerKey) *ownerCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	oc, ok := c.owners[owner]
	if !ok {
		oc = &ownerCache{}
		c.owners[owner] = oc
	}
	return oc
}

// List returns the current known tasks for the owner. It never fails: if the
// initial load from the repository errors, the error is logged and an empty
// list returned.
func (c *Coordinator) List(ctx context.Context, owner entities.OwnerKey) []entities.Task {
	oc := c.cache(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()

	if !owner.IsLocal() && !oc.loaded {
		tasks, err := c.repo.ListByOwner(ctx, owner.ID)
		if err != nil {
			c.logger.Errorw("Failed to load tasks", "owner", owner.String(), "error", err)
		} else {
			oc.tasks = tasks
			oc.loaded = true
		}
	}

	return copyTasks(oc.tasks)
}

// Drop discards the owner's cached list, used when an identity signs out.
func (c *Coordinator) Drop(owner entities.OwnerKey) {
	c.mu.Lock()
	delete(c.owners, owner)
	c.mu.Unlock()
}

// Create applies an optimistic insert with a temporary id, then persists it
// for remote owners. The temporary entry is replaced by the server-confirmed
// task on success and removed on failure. For local owners the returned task
// is authoritative immediately.
func (c *Coordinator) Create(ctx context.Context, owner entities.OwnerKey, draft entities.TaskDraft) (*Mutation, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	oc := c.cache(owner)
	m := newMutation()
	now := time.Now().UTC()

	oc.mu.Lock()
	if owner.IsLocal() {
		task := taskFromDraft(draft, uuid.NewString(), nil, now)
		oc.tasks = append(oc.tasks, task)
		oc.mu.Unlock()

		m.settle(StateCommitted, &task, nil)
		c.signalInvalidate(owner)
		c.notifier.Publish(owner, notify.LevelInfo, "Task Added (Locally)", "Sign in to save your tasks permanently.")
		return m, nil
	}

	ownerID := owner.ID
	optimistic := taskFromDraft(draft, tempIDPrefix+uuid.NewString(), &ownerID, now)
	oc.tasks = append(oc.tasks, optimistic)
	oc.mu.Unlock()

	go c.persistCreate(context.WithoutCancel(ctx), owner, oc, m, optimistic.ID, draft)
	return m, nil
}

func (c *Coordinator) persistCreate(ctx context.Context, owner entities.OwnerKey, oc *ownerCache, m *Mutation, tempID string, draft entities.TaskDraft) {
	created, err := c.repo.Create(ctx, owner.ID, draft)

	oc.mu.Lock()
	if err != nil {
		if idx := findTask(oc.tasks, tempID); idx >= 0 {
			oc.tasks = append(oc.tasks[:idx], oc.tasks[idx+1:]...)
		}
	} else {
		if idx := findTask(oc.tasks, tempID); idx >= 0 {
			oc.tasks[idx] = *created
		} else {
			oc.tasks = append(oc.tasks, *created)
		}
	}
	oc.mu.Unlock()

	c.refetch(ctx, owner, oc)

	if err != nil {
		c.notifier.Publish(owner, notify.LevelError, "Error", fmt.Sprintf("Failed to add %q.", draft.Name))
		m.settle(StateRolledBack, nil, fmt.Errorf("persist create: %w", err))
		return
	}

	c.signalInvalidate(owner)
	c.notifier.Publish(owner, notify.LevelInfo, "Task Added", fmt.Sprintf("%q has been added.", created.Name))
	m.settle(StateCommitted, created, nil)
}

// Update replaces a task by id. The visible entry is swapped immediately; on
// persistence failure the snapshotted prior entry is restored exactly.
func (c *Coordinator) Update(ctx context.Context, owner entities.OwnerKey, task entities.Task) (*Mutation, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	oc := c.cache(owner)
	m := newMutation()
	now := time.Now().UTC()

	oc.mu.Lock()
	idx := findTask(oc.tasks, task.ID)
	if idx < 0 {
		oc.mu.Unlock()
		return nil, entities.ErrTaskNotFound
	}

	prior := oc.tasks[idx]
	updated := prior
	updated.Name = task.Name
	updated.Description = task.Description
	updated.Deadline = task.Deadline
	updated.Importance = task.Importance
	updated.EstimatedTime = task.EstimatedTime
	updated.UpdatedAt = &now
	oc.tasks[idx] = updated

	if owner.IsLocal() {
		oc.mu.Unlock()
		m.settle(StateCommitted, &updated, nil)
		c.signalInvalidate(owner)
		c.notifier.Publish(owner, notify.LevelInfo, "Task Updated (Locally)", "Sign in to save changes.")
		return m, nil
	}
	oc.mu.Unlock()

	go c.persistUpdate(context.WithoutCancel(ctx), owner, oc, m, prior, idx, updated)
	return m, nil
}

func (c *Coordinator) persistUpdate(ctx context.Context, owner entities.OwnerKey, oc *ownerCache, m *Mutation, prior entities.Task, priorIdx int, updated entities.Task) {
	confirmed, err := c.repo.Update(ctx, owner.ID, &updated)

	oc.mu.Lock()
	if err != nil {
		restoreTask(oc, prior, priorIdx)
	} else if idx := findTask(oc.tasks, confirmed.ID); idx >= 0 {
		oc.tasks[idx] = *confirmed
	}
	oc.mu.Unlock()

	c.refetch(ctx, owner, oc)

	if err != nil {
		c.notifier.Publish(owner, notify.LevelError, "Error", fmt.Sprintf("Failed to update %q.", updated.Name))
		m.settle(StateRolledBack, nil, fmt.Errorf("persist update: %w", err))
		return
	}

	c.signalInvalidate(owner)
	c.notifier.Publish(owner, notify.LevelInfo, "Task Updated", fmt.Sprintf("%q has been updated.", confirmed.Name))
	m.settle(StateCommitted, confirmed, nil)
}

// Remove deletes a task by id. Removing an id that is already absent settles
// as a committed no-op rather than an error.
func (c *Coordinator) Remove(ctx context.Context, owner entities.OwnerKey, id string) (*Mutation, error) {
	oc := c.cache(owner)
	m := newMutation()

	oc.mu.Lock()
	idx := findTask(oc.tasks, id)
	if idx < 0 {
		oc.mu.Unlock()
		m.settle(StateCommitted, nil, nil)
		return m, nil
	}

	prior := oc.tasks[idx]
	oc.tasks = append(oc.tasks[:idx], oc.tasks[idx+1:]...)

	if owner.IsLocal() {
		oc.mu.Unlock()
		m.settle(StateCommitted, nil, nil)
		c.signalInvalidate(owner)
		c.notifier.Publish(owner, notify.LevelInfo, "Task Deleted (Locally)", "Task has been removed.")
		return m, nil
	}
	oc.mu.Unlock()

	// Never persisted, so nothing to delete remotely.
	if IsTemporaryID(id) {
		m.settle(StateCommitted, nil, nil)
		c.signalInvalidate(owner)
		return m, nil
	}

	go c.persistRemove(context.WithoutCancel(ctx), owner, oc, m, prior, idx)
	return m, nil
}

func (c *Coordinator) persistRemove(ctx context.Context, owner entities.OwnerKey, oc *ownerCache, m *Mutation, prior entities.Task, priorIdx int) {
	err := c.repo.Delete(ctx, owner.ID, prior.ID)

	if err != nil {
		oc.mu.Lock()
		restoreTask(oc, prior, priorIdx)
		oc.mu.Unlock()
	}

	c.refetch(ctx, owner, oc)

	if err != nil {
		c.notifier.Publish(owner, notify.LevelError, "Error", "Failed to delete task.")
		m.settle(StateRolledBack, nil, fmt.Errorf("persist delete: %w", err))
		return
	}

	c.signalInvalidate(owner)
	c.notifier.Publish(owner, notify.LevelInfo, "Task Deleted", "Task has been removed.")
	m.settle(StateCommitted, nil, nil)
}

// refetch replaces the cached list with the repository's view. Errors are
// logged only: the optimistic state already reflects the settle outcome and
// the next successful refetch will converge.
func (c *Coordinator) refetch(ctx context.Context, owner entities.OwnerKey, oc *ownerCache) {
	tasks, err := c.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		c.logger.Errorw("Refetch after settle failed", "owner", owner.String(), "error", err)
		return
	}

	oc.mu.Lock()
	oc.tasks = tasks
	oc.loaded = true
	oc.mu.Unlock()
}

// restoreTask puts a snapshotted entry back, preferring its original position
// so a rollback restores the list exactly as it was.
func restoreTask(oc *ownerCache, prior entities.Task, priorIdx int) {
	if idx := findTask(oc.tasks, prior.ID); idx >= 0 {
		oc.tasks[idx] = prior
		return
	}
	if priorIdx > len(oc.tasks) {
		priorIdx = len(oc.tasks)
	}
	oc.tasks = append(oc.tasks[:priorIdx], append([]entities.Task{prior}, oc.tasks[priorIdx:]...)...)
}

func taskFromDraft(draft entities.TaskDraft, id string, ownerID *uuid.UUID, now time.Time) entities.Task {
	return entities.Task{
		ID:            id,
		Name:          draft.Name,
		Description:   draft.Description,
		Deadline:      draft.Deadline,
		Importance:    draft.Importance,
		EstimatedTime: draft.EstimatedTime,
		OwnerID:       ownerID,
		CreatedAt:     &now,
	}
}

func findTask(tasks []entities.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func copyTasks(tasks []entities.Task) []entities.Task {
	out := make([]entities.Task, len(tasks))
	copy(out, tasks)
	return out
}
