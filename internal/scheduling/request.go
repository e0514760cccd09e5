// Package scheduling owns the task-to-schedule contract: the wire shapes the
// external planner consumes and produces, validation of its untrusted output,
// and reconciliation of validated schedules into editable client state.
package scheduling

import (
	"time"

	"github.com/daywise/core/internal/domain/entities"
)

// TaskInput is the planner-facing projection of a task. It deliberately
// carries no identity or storage metadata.
type TaskInput struct {
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Deadline      string              `json:"deadline,omitempty"`
	Importance    entities.Importance `json:"importance"`
	EstimatedTime int                 `json:"estimatedTime"`
}

// Request is the input contract of the external planner.
type Request struct {
	Tasks []TaskInput `json:"tasks"`
}

// BuildRequest projects a task list into the planner's input contract,
// stripping id, owner and timestamp fields. It fails with ErrEmptyTaskList on
// an empty list so callers can short-circuit before any planner call.
func BuildRequest(tasks []entities.Task) (Request, error) {
	if len(tasks) == 0 {
		return Request{}, entities.ErrEmptyTaskList
	}

	inputs := make([]TaskInput, 0, len(tasks))
	for _, t := range tasks {
		in := TaskInput{
			Name:          t.Name,
			Importance:    t.Importance,
			EstimatedTime: t.EstimatedTime,
		}
		if in.Importance == "" {
			in.Importance = entities.ImportanceMedium
		}
		if t.Description != nil {
			in.Description = *t.Description
		}
		if t.Deadline != nil {
			in.Deadline = t.Deadline.Format(time.RFC3339)
		}
		inputs = append(inputs, in)
	}

	return Request{Tasks: inputs}, nil
}
