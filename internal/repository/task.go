package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// ListTasks returns every task in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]models.Task, error) {
	defer r.observe("list_tasks", time.Now())

	query := `
		SELECT id, assigned_to, status, due_date, priority, description
		FROM tasks
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err = rows.Scan(
			&task.ID, &task.AssignedTo, &task.Status, &task.DueDate, &task.Priority, &task.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// CreateTask stores the draft under a newly generated identifier.
func (r *Repository) CreateTask(ctx context.Context, draft models.Draft) (models.Task, error) {
	defer r.observe("create_task", time.Now())

	task := draft.WithID(r.newID())
	query := `
		INSERT INTO tasks (id, assigned_to, status, due_date, priority, description)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		task.ID, task.AssignedTo, task.Status, task.DueDate, task.Priority, task.Description,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert new task: %w", err)
	}

	return task, nil
}

// UpdateTask overwrites every field of an existing task.
// It returns ErrTaskNotFound when no task has the given identifier.
func (r *Repository) UpdateTask(ctx context.Context, id string, draft models.Draft) (models.Task, error) {
	defer r.observe("update_task", time.Now())

	query := `
		UPDATE tasks
		SET assigned_to = $2, status = $3, due_date = $4, priority = $5, description = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, assigned_to, status, due_date, priority, description`

	var task models.Task
	err := r.db.QueryRow(ctx, query,
		id, draft.AssignedTo, draft.Status, draft.DueDate, draft.Priority, draft.Description,
	).Scan(&task.ID, &task.AssignedTo, &task.Status, &task.DueDate, &task.Priority, &task.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task '%s': %w", id, ErrTaskNotFound)
		}
		return models.Task{}, fmt.Errorf("task update error '%s': %w", id, err)
	}

	return task, nil
}

// DeleteTask removes a task. It returns ErrTaskNotFound when nothing was deleted.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	defer r.observe("delete_task", time.Now())

	tag, err := r.db.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete task '%s': %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task '%s': %w", id, ErrTaskNotFound)
	}

	return nil
}
