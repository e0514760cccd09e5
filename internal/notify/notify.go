// Package notify provides an explicit, injectable notification channel for
// user-visible messages. It replaces the ambient global dispatcher pattern:
// components that need to raise notifications receive a *Notifier.
package notify

import (
	"sync"
	"time"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
)

// Level classifies a notification for display purposes.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notification is one user-visible message scoped to an owner key.
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// maxPerOwner bounds the undelivered backlog per owner; oldest entries are
// dropped first.
const maxPerOwner = 64

// Notifier buffers notifications per owner key until they are drained.
type Notifier struct {
	logger *logger.Logger

	mu      sync.Mutex
	pending map[entities.OwnerKey][]Notification
}

// New creates a notifier. Every published notification is also logged.
func New(log *logger.Logger) *Notifier {
	return &Notifier{
		logger:  log,
		pending: make(map[entities.OwnerKey][]Notification),
	}
}

// Publish queues a notification for the owner.
func (n *Notifier) Publish(owner entities.OwnerKey, level Level, title, message string) {
	note := Notification{
		Level:   level,
		Title:   title,
		Message: message,
		At:      time.Now().UTC(),
	}

	n.mu.Lock()
	queue := append(n.pending[owner], note)
	if len(queue) > maxPerOwner {
		queue = queue[len(queue)-maxPerOwner:]
	}
	n.pending[owner] = queue
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.Infow("Notification published",
			"owner", owner.String(),
			"level", string(level),
			"title", title,
			"message", message,
		)
	}
}

// Drain returns and clears the owner's pending notifications in publish order.
func (n *Notifier) Drain(owner entities.OwnerKey) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := n.pending[owner]
	if len(queue) == 0 {
		return []Notification{}
	}
	delete(n.pending, owner)
	return queue
}

// Forget discards any pending notifications for the owner, used when an
// identity signs out.
func (n *Notifier) Forget(owner entities.OwnerKey) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, owner)
}
