package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/ui"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	ui.Snapshot

	Title      string
	Assignees  []string
	Statuses   []models.Status
	Priorities []models.Priority
	PageSizes  []int
}

func (p pageData) TaskDialog() bool {
	return p.Mode == ui.ModeCreating || p.Mode == ui.ModeEditing
}

func (p pageData) Editing() bool { return p.Mode == ui.ModeEditing }

func (p pageData) ConfirmingDelete() bool { return p.Mode == ui.ModeConfirmingDelete }

// Handler renders the task board and applies form actions to the session's view model.
type Handler struct {
	log      *slog.Logger
	sessions *Sessions
	page     *template.Template
}

func NewHandler(log *slog.Logger, sessions *Sessions) (*Handler, error) {
	page, err := template.New("page.html").Funcs(template.FuncMap{
		"statusColor":   StatusColor,
		"priorityColor": PriorityColor,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{log: log, sessions: sessions, page: page}, nil
}

// NewRouter wires the board routes. Every action redirects back to the board.
func NewRouter(log *slog.Logger, sessions *Sessions) (http.Handler, error) {
	handler, err := NewHandler(log, sessions)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.HandleFunc("/", handler.Board).Methods(http.MethodGet)
	router.HandleFunc("/refresh", handler.Refresh).Methods(http.MethodPost)
	router.HandleFunc("/tasks/new", handler.OpenNew).Methods(http.MethodPost)
	router.HandleFunc("/tasks/create", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/menu", handler.ToggleMenu).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/edit", handler.OpenEdit).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/update", handler.Update).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/delete", handler.OpenDelete).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/delete/confirm", handler.ConfirmDelete).Methods(http.MethodPost)
	router.HandleFunc("/dialog/cancel", handler.Cancel).Methods(http.MethodPost)

	return router, nil
}

func (h *Handler) initLogger(opn string) *slog.Logger {
	return h.log.With(
		sl.Op(opn),
		slog.String("division", "web"),
	)
}

// Board renders the page. The first request of a session loads the task list.
func (h *Handler) Board(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Web.Board")
	board := h.sessions.Board(writer, req)

	if err := board.Mount(req.Context()); err != nil {
		log.WarnContext(req.Context(), "Board mounted without tasks", sl.Err(err))
	}

	data := pageData{
		Snapshot:   board.Snapshot(),
		Title:      "Tasks",
		Assignees:  models.Assignees,
		Statuses:   models.Statuses,
		Priorities: models.Priorities,
		PageSizes:  pageSizes,
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(writer, data); err != nil {
		log.ErrorContext(req.Context(), "Failed to render board", sl.Err(err))
	}
}

func (h *Handler) Refresh(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	h.done(writer, req, "Web.Refresh", board.Refresh(req.Context()))
}

func (h *Handler) OpenNew(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	h.done(writer, req, "Web.OpenNew", board.OpenNew())
}

func (h *Handler) Create(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}

	if err := h.applyForm(req, board); err != nil {
		h.done(writer, req, "Web.Create", err)
		return
	}
	h.done(writer, req, "Web.Create", board.SubmitNew(req.Context()))
}

func (h *Handler) ToggleMenu(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	board.ToggleDropdown(mux.Vars(req)["id"])
	h.done(writer, req, "Web.ToggleMenu", nil)
}

func (h *Handler) OpenEdit(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	h.done(writer, req, "Web.OpenEdit", board.OpenEdit(mux.Vars(req)["id"]))
}

func (h *Handler) Update(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}

	if board.TargetID() != mux.Vars(req)["id"] {
		h.done(writer, req, "Web.Update", ui.ErrNoActiveDialog)
		return
	}
	if err := h.applyForm(req, board); err != nil {
		h.done(writer, req, "Web.Update", err)
		return
	}
	h.done(writer, req, "Web.Update", board.SubmitEdit(req.Context()))
}

func (h *Handler) OpenDelete(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	h.done(writer, req, "Web.OpenDelete", board.OpenDelete(mux.Vars(req)["id"]))
}

func (h *Handler) ConfirmDelete(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}

	if board.TargetID() != mux.Vars(req)["id"] {
		h.done(writer, req, "Web.ConfirmDelete", ui.ErrNoActiveDialog)
		return
	}
	h.done(writer, req, "Web.ConfirmDelete", board.ConfirmDelete(req.Context()))
}

func (h *Handler) Cancel(writer http.ResponseWriter, req *http.Request) {
	board, ok := h.session(writer, req)
	if !ok {
		return
	}
	board.Cancel()
	h.done(writer, req, "Web.Cancel", nil)
}

// session returns the board of a known session. Actions never start a
// session: without one the browser is sent to the board, which creates it.
func (h *Handler) session(writer http.ResponseWriter, req *http.Request) (*ui.ViewModel, bool) {
	board, ok := h.sessions.Lookup(req)
	if !ok {
		h.initLogger("Web.Session").DebugContext(req.Context(), "Action without a live session", "path", req.URL.Path)
		http.Redirect(writer, req, "/", http.StatusSeeOther)
	}
	return board, ok
}

// applyForm copies the posted draft fields into the open dialog.
func (h *Handler) applyForm(req *http.Request, board *ui.ViewModel) error {
	if err := req.ParseForm(); err != nil {
		return err
	}

	for _, field := range ui.Fields {
		if _, ok := req.PostForm[string(field)]; !ok {
			continue
		}
		if err := board.SetField(field, req.PostForm.Get(string(field))); err != nil {
			return err
		}
	}

	return nil
}

// done logs the outcome of an action and redirects back to the board.
// Service failures are already visible to the user as a notice.
func (h *Handler) done(writer http.ResponseWriter, req *http.Request, opn string, err error) {
	if err != nil {
		log := h.initLogger(opn)
		switch {
		case errors.Is(err, ui.ErrNoActiveDialog), errors.Is(err, ui.ErrDialogOpen),
			errors.Is(err, ui.ErrTaskNotDisplayed), errors.Is(err, models.ErrAssigneeRequired):
			log.DebugContext(req.Context(), "Action ignored", sl.Err(err))
		default:
			log.ErrorContext(req.Context(), "Action failed", sl.Err(err))
		}
	}

	http.Redirect(writer, req, "/", http.StatusSeeOther)
}
