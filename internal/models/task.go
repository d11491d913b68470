package models

import (
	"errors"
	"strings"
)

// ErrAssigneeRequired is returned when a draft is submitted without an assignee.
var ErrAssigneeRequired = errors.New("assigned user is required")

// Status is the progress state of a task.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// Priorities lists the known priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Assignees is the fixed set of users a task can be assigned to.
var Assignees = []string{"User 1", "User 2", "User 3", "User 4"}

// Task is a unit of work record. ID is assigned by the server.
type Task struct {
	ID          string   `json:"id"`
	AssignedTo  string   `json:"assignedTo"`
	Status      Status   `json:"status"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}

// Draft is the editable form representation of a task, without its ID.
type Draft struct {
	AssignedTo  string   `json:"assignedTo"`
	Status      Status   `json:"status"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}

// NewDraft returns a draft populated with the form defaults.
func NewDraft() Draft {
	return Draft{
		AssignedTo:  "",
		Status:      StatusNotStarted,
		DueDate:     "",
		Priority:    PriorityNormal,
		Description: "",
	}
}

// DraftFromTask copies every field of the task except its ID.
func DraftFromTask(task Task) Draft {
	return Draft{
		AssignedTo:  task.AssignedTo,
		Status:      task.Status,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Description: task.Description,
	}
}

// WithID builds a task from the draft under the given identifier.
func (d Draft) WithID(id string) Task {
	return Task{
		ID:          id,
		AssignedTo:  d.AssignedTo,
		Status:      d.Status,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Description: d.Description,
	}
}

// Validate checks the only required field of a draft.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.AssignedTo) == "" {
		return ErrAssigneeRequired
	}
	return nil
}
