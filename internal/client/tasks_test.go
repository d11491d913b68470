package client_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/api"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	mocks "github.com/UnknownOlympus/hestia/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var draft = models.Draft{
	AssignedTo:  "User 4",
	Status:      models.StatusInProgress,
	DueDate:     "2025-09-30",
	Priority:    models.PriorityLow,
	Description: "Check the logs",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, handler http.HandlerFunc) (*client.TaskClient, *metrics.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := discardLogger()

	return client.NewTaskClient(logger, client.CreateHTTPClient(logger, 0), server.URL+"/", appMetrics), appMetrics
}

func TestTaskClient_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success keeps server order", func(t *testing.T) {
		t.Parallel()
		expected := []models.Task{draft.WithID("3"), draft.WithID("1"), draft.WithID("2")}
		taskClient, appMetrics := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/tasks", r.URL.Path)
			_ = json.NewEncoder(w).Encode(expected)
		})

		tasks, err := taskClient.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, tasks)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ClientRequests.WithLabelValues("list", "success")), 0)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		taskClient, appMetrics := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"failed to list tasks"}`))
		})

		tasks, err := taskClient.List(ctx)

		require.ErrorIs(t, err, client.ErrServer)
		require.ErrorContains(t, err, "failed to list tasks")
		assert.Nil(t, tasks)
		assert.Equal(t, client.KindServer, client.KindOf(err))
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ClientRequests.WithLabelValues("list", "failure")), 0)
	})

	t.Run("not found on list is a server error", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, http.NotFound)

		_, err := taskClient.List(ctx)

		require.ErrorIs(t, err, client.ErrServer)
	})

	t.Run("undecodable body", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := taskClient.List(ctx)

		require.ErrorIs(t, err, client.ErrNetwork)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		logger := discardLogger()
		taskClient := client.NewTaskClient(logger, client.CreateHTTPClient(logger, 0),
			"http://127.0.0.1:0", metrics.NewMetrics(prometheus.NewRegistry()))

		_, err := taskClient.List(ctx)

		require.ErrorIs(t, err, client.ErrNetwork)
		assert.Equal(t, client.KindNetwork, client.KindOf(err))
	})
}

func TestTaskClient_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var got models.Draft
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, draft, got)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(got.WithID("4"))
		})

		task, err := taskClient.Create(ctx, draft)

		require.NoError(t, err)
		assert.Equal(t, draft.WithID("4"), task)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		task, err := taskClient.Create(ctx, draft)

		require.ErrorIs(t, err, client.ErrServer)
		require.ErrorContains(t, err, "status code 502")
		assert.Equal(t, models.Task{}, task)
	})
}

func TestTaskClient_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/tasks/a b", r.URL.Path)
			_ = json.NewEncoder(w).Encode(draft.WithID("a b"))
		})

		task, err := taskClient.Update(ctx, "a b", draft)

		require.NoError(t, err)
		assert.Equal(t, "a b", task.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, http.NotFound)

		_, err := taskClient.Update(ctx, "gone", draft)

		require.ErrorIs(t, err, client.ErrNotFound)
		assert.Equal(t, client.KindNotFound, client.KindOf(err))
	})
}

func TestTaskClient_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/tasks/7", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, taskClient.Delete(ctx, "7"))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, http.NotFound)

		require.ErrorIs(t, taskClient.Delete(ctx, "7"), client.ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		taskClient, _ := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		require.ErrorIs(t, taskClient.Delete(ctx, "7"), client.ErrServer)
	})
}

// TestTaskClient_AgainstAPI checks the client against the real API router.
func TestTaskClient_AgainstAPI(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := mocks.NewTaskRepoIface(t)
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := discardLogger()
	server := httptest.NewServer(api.NewRouter(logger, repo, appMetrics, []string{"*"}))
	t.Cleanup(server.Close)

	taskClient := client.NewTaskClient(logger, client.CreateHTTPClient(logger, 0), server.URL, appMetrics)

	repo.On("CreateTask", mock.Anything, draft).Return(draft.WithID("id-1"), nil).Once()
	repo.On("UpdateTask", mock.Anything, "missing", draft).Return(models.Task{}, repository.ErrTaskNotFound).Once()
	repo.On("DeleteTask", mock.Anything, "id-1").Return(nil).Once()

	created, err := taskClient.Create(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)

	_, err = taskClient.Update(ctx, "missing", draft)
	require.ErrorIs(t, err, client.ErrNotFound)

	require.NoError(t, taskClient.Delete(ctx, "id-1"))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, client.KindNone, client.KindOf(nil))
	assert.Equal(t, client.KindValidation, client.KindOf(models.ErrAssigneeRequired))
	assert.Equal(t, client.KindUnknown, client.KindOf(assert.AnError))
	assert.Equal(t, "not_found", client.KindNotFound.String())
}
