package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
)

// TaskService is the remote tasks resource the store mirrors.
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, draft models.Draft) (models.Task, error)
	Update(ctx context.Context, id string, draft models.Draft) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Store keeps an ordered, in-memory copy of the server task list.
//
// Mutations are pessimistic: the collection changes only after the service
// confirms. The mutex guards the slice only and is never held during a
// service call, so concurrent submissions are all sent and the last response
// to arrive decides the final state of its record.
type Store struct {
	log     *slog.Logger
	service TaskService

	mu    sync.RWMutex
	tasks []models.Task
}

func NewStore(log *slog.Logger, service TaskService) *Store {
	return &Store{log: log, service: service, tasks: make([]models.Task, 0)}
}

func (s *Store) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "store"),
	)
}

// Load replaces the whole collection with the server list.
// On failure the previous collection is kept.
func (s *Store) Load(ctx context.Context) error {
	log := s.initLogger("Store.Load")

	tasks, err := s.service.List(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Error fetching tasks", sl.Err(err))
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	s.mu.Lock()
	s.tasks = slices.Clone(tasks)
	s.mu.Unlock()

	log.DebugContext(ctx, "Tasks loaded", "count", len(tasks))
	return nil
}

// Create submits the draft and appends the created task.
func (s *Store) Create(ctx context.Context, draft models.Draft) (models.Task, error) {
	log := s.initLogger("Store.Create")

	task, err := s.service.Create(ctx, draft)
	if err != nil {
		log.ErrorContext(ctx, "Error creating task", sl.Err(err))
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(task.ID); idx >= 0 {
		log.WarnContext(ctx, "Created task id already present, replacing entry", "id", task.ID)
		s.tasks[idx] = task
		return task, nil
	}
	s.tasks = append(s.tasks, task)

	return task, nil
}

// Update submits the draft for the task and replaces the matching entry in place.
func (s *Store) Update(ctx context.Context, id string, draft models.Draft) (models.Task, error) {
	log := s.initLogger("Store.Update")

	task, err := s.service.Update(ctx, id, draft)
	if err != nil {
		log.ErrorContext(ctx, "Error updating task", "id", id, sl.Err(err))
		return models.Task{}, fmt.Errorf("failed to update task '%s': %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		log.DebugContext(ctx, "Updated task is no longer displayed", "id", id)
		return task, nil
	}
	s.tasks[idx] = task

	return task, nil
}

// Delete removes the task on the server and then from the collection.
func (s *Store) Delete(ctx context.Context, id string) error {
	log := s.initLogger("Store.Delete")

	if err := s.service.Delete(ctx, id); err != nil {
		log.ErrorContext(ctx, "Error deleting task", "id", id, sl.Err(err))
		return fmt.Errorf("failed to delete task '%s': %w", id, err)
	}

	s.mu.Lock()
	s.tasks = slices.DeleteFunc(s.tasks, func(task models.Task) bool {
		return task.ID == id
	})
	s.mu.Unlock()

	return nil
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx], true
	}
	return models.Task{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(task models.Task) bool {
		return task.ID == id
	})
}
