package repository

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when an update or delete targets an unknown task.
var ErrTaskNotFound = errors.New("task not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
	newID   func() string
}

// TaskRepoIface represents the interface for interacting with task data in the repository.
type TaskRepoIface interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.Draft) (models.Task, error)
	UpdateTask(ctx context.Context, id string, draft models.Draft) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// NewTaskRepository returns a task repository that assigns random UUIDs to new tasks.
func NewTaskRepository(db Database, metrics *metrics.Metrics) TaskRepoIface {
	return &Repository{db: db, metrics: metrics, newID: uuid.NewString}
}
