package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/gorilla/mux"
)

// Handler serves the tasks resource on top of a task repository.
type Handler struct {
	log  *slog.Logger
	repo repository.TaskRepoIface
}

func NewHandler(log *slog.Logger, repo repository.TaskRepoIface) *Handler {
	return &Handler{log: log, repo: repo}
}

func (h *Handler) initLogger(opn string) *slog.Logger {
	return h.log.With(
		sl.Op(opn),
		slog.String("division", "api"),
	)
}

// ListTasks handles GET and HEAD /tasks.
func (h *Handler) ListTasks(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("API.ListTasks")

	// HEAD is the liveness probe of the monitoring server.
	if req.Method == http.MethodHead {
		writer.WriteHeader(http.StatusOK)
		return
	}

	tasks, err := h.repo.ListTasks(req.Context())
	if err != nil {
		log.ErrorContext(req.Context(), "failed to list tasks", sl.Err(err))
		h.writeError(writer, req, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	h.writeJSON(writer, req, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("API.CreateTask")

	draft, ok := h.decodeDraft(writer, req)
	if !ok {
		return
	}

	task, err := h.repo.CreateTask(req.Context(), draft)
	if err != nil {
		log.ErrorContext(req.Context(), "failed to create task", sl.Err(err))
		h.writeError(writer, req, http.StatusInternalServerError, "failed to create task")
		return
	}

	log.InfoContext(req.Context(), "task created", "id", task.ID, "assignedTo", task.AssignedTo)
	h.writeJSON(writer, req, http.StatusCreated, task)
}

// UpdateTask handles PUT /tasks/{id}.
func (h *Handler) UpdateTask(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("API.UpdateTask")
	taskID := mux.Vars(req)["id"]

	draft, ok := h.decodeDraft(writer, req)
	if !ok {
		return
	}

	task, err := h.repo.UpdateTask(req.Context(), taskID, draft)
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		log.WarnContext(req.Context(), "update of unknown task", "id", taskID)
		h.writeError(writer, req, http.StatusNotFound, "task not found")
		return
	case err != nil:
		log.ErrorContext(req.Context(), "failed to update task", "id", taskID, sl.Err(err))
		h.writeError(writer, req, http.StatusInternalServerError, "failed to update task")
		return
	}

	log.InfoContext(req.Context(), "task updated", "id", task.ID)
	h.writeJSON(writer, req, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("API.DeleteTask")
	taskID := mux.Vars(req)["id"]

	err := h.repo.DeleteTask(req.Context(), taskID)
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		log.WarnContext(req.Context(), "delete of unknown task", "id", taskID)
		h.writeError(writer, req, http.StatusNotFound, "task not found")
		return
	case err != nil:
		log.ErrorContext(req.Context(), "failed to delete task", "id", taskID, sl.Err(err))
		h.writeError(writer, req, http.StatusInternalServerError, "failed to delete task")
		return
	}

	log.InfoContext(req.Context(), "task deleted", "id", taskID)
	writer.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeDraft(writer http.ResponseWriter, req *http.Request) (models.Draft, bool) {
	var draft models.Draft
	if err := json.NewDecoder(req.Body).Decode(&draft); err != nil {
		h.log.DebugContext(req.Context(), "invalid task payload", sl.Err(err))
		h.writeError(writer, req, http.StatusBadRequest, "invalid JSON payload")
		return models.Draft{}, false
	}
	return draft, true
}

func (h *Handler) writeError(writer http.ResponseWriter, req *http.Request, status int, message string) {
	h.writeJSON(writer, req, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(writer http.ResponseWriter, req *http.Request, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}
