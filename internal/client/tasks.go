package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

// TaskClient is a thin wrapper over the tasks REST resource.
// Every call is sent once: no retries and no idempotency key.
type TaskClient struct {
	log        *slog.Logger
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
}

func NewTaskClient(log *slog.Logger, httpClient *http.Client, baseURL string, metrics *metrics.Metrics) *TaskClient {
	return &TaskClient{
		log:        log,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    metrics,
	}
}

// List fetches all tasks in server order.
func (c *TaskClient) List(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := c.do(ctx, "list", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create sends the draft and returns the task with its server-assigned id.
func (c *TaskClient) Create(ctx context.Context, draft models.Draft) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, "create", http.MethodPost, "/tasks", draft, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update replaces the task fields with the draft.
func (c *TaskClient) Update(ctx context.Context, id string, draft models.Draft) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, "update", http.MethodPut, "/tasks/"+url.PathEscape(id), draft, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Delete removes the task.
func (c *TaskClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *TaskClient) do(ctx context.Context, opn, method, path string, body, out any) error {
	err := c.roundTrip(ctx, method, path, body, out)

	result := "success"
	if err != nil {
		result = "failure"
		c.log.DebugContext(ctx, "task request failed", "operation", opn, "path", path, "error", err)
	}
	c.metrics.ClientRequests.WithLabelValues(opn, result).Inc()

	if err != nil {
		return fmt.Errorf("failed to %s task: %w", opn, err)
	}
	return nil
}

func (c *TaskClient) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && (method == http.MethodPut || method == http.MethodDelete):
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: status code %d%s", ErrServer, resp.StatusCode, errorMessage(resp.Body))
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response body: %w", ErrNetwork, err)
	}

	return nil
}

// errorMessage extracts the message of a JSON error body, if any.
func errorMessage(body io.Reader) string {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&apiErr); err != nil || apiErr.Error == "" {
		return ""
	}
	return ", " + apiErr.Error
}
