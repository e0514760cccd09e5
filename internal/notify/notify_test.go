package notify

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
)

func TestPublishAndDrain(t *testing.T) {
	n := New(logger.NewNop())
	owner := entities.LocalOwner(uuid.New())

	n.Publish(owner, LevelInfo, "Task Added", "first")
	n.Publish(owner, LevelError, "Error", "second")

	got := n.Drain(owner)
	if len(got) != 2 {
		t.Fatalf("drained %d notifications, want 2", len(got))
	}
	if got[0].Title != "Task Added" || got[1].Title != "Error" {
		t.Errorf("publish order not preserved: %q, %q", got[0].Title, got[1].Title)
	}
	if got[1].Level != LevelError {
		t.Errorf("level: got %q", got[1].Level)
	}

	// Drain clears the queue.
	if again := n.Drain(owner); len(again) != 0 {
		t.Errorf("second drain returned %d notifications", len(again))
	}
}

func TestDrainEmptyReturnsEmptySlice(t *testing.T) {
	n := New(logger.NewNop())
	got := n.Drain(entities.LocalOwner(uuid.New()))
	if got == nil || len(got) != 0 {
		t.Errorf("drain of empty queue: got %#v, want empty slice", got)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	n := New(logger.NewNop())
	a := entities.LocalOwner(uuid.New())
	b := entities.RemoteOwner(uuid.New())

	n.Publish(a, LevelInfo, "for a", "")

	if got := n.Drain(b); len(got) != 0 {
		t.Errorf("owner b drained owner a's notifications: %v", got)
	}
	if got := n.Drain(a); len(got) != 1 {
		t.Errorf("owner a's queue: got %d, want 1", len(got))
	}
}

func TestBacklogIsBounded(t *testing.T) {
	n := New(logger.NewNop())
	owner := entities.LocalOwner(uuid.New())

	for i := 0; i < maxPerOwner+10; i++ {
		n.Publish(owner, LevelInfo, fmt.Sprintf("n%d", i), "")
	}

	got := n.Drain(owner)
	if len(got) != maxPerOwner {
		t.Fatalf("backlog: got %d, want %d", len(got), maxPerOwner)
	}
	// Oldest entries dropped first.
	if got[0].Title != "n10" {
		t.Errorf("oldest surviving entry: got %q, want n10", got[0].Title)
	}
}

func TestForget(t *testing.T) {
	n := New(logger.NewNop())
	owner := entities.LocalOwner(uuid.New())

	n.Publish(owner, LevelInfo, "pending", "")
	n.Forget(owner)

	if got := n.Drain(owner); len(got) != 0 {
		t.Errorf("drain after forget: got %d notifications", len(got))
	}
}
