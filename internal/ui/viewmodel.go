package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
)

var (
	// ErrNoActiveDialog is returned when an action targets a dialog that is not open.
	ErrNoActiveDialog = errors.New("no matching dialog is open")
	// ErrDialogOpen is returned when a dialog is already open.
	ErrDialogOpen = errors.New("another dialog is open")
	// ErrTaskNotDisplayed is returned when a row action targets a task missing from the list.
	ErrTaskNotDisplayed = errors.New("task is not displayed")
	// ErrUnknownField is returned for a draft field name outside Fields.
	ErrUnknownField = errors.New("unknown draft field")
)

// Snapshot is an immutable copy of the board state used for rendering.
type Snapshot struct {
	Tasks        []models.Task
	Mode         Mode
	Draft        models.Draft
	Target       models.Task
	OpenDropdown string
	Notice       *Notice
	Records      int
}

// ViewModel owns the interaction state of one task board session and the
// store holding its task collection.
type ViewModel struct {
	log   *slog.Logger
	store *tasks.Store

	mu       sync.Mutex
	mode     Mode
	dropdown string
	target   models.Task
	draft    models.Draft
	notice   *Notice
	loaded   bool
}

func NewViewModel(log *slog.Logger, store *tasks.Store) *ViewModel {
	return &ViewModel{
		log:   log,
		store: store,
		mode:  ModeIdle,
		draft: models.NewDraft(),
	}
}

func (vm *ViewModel) initLogger(opn string) *slog.Logger {
	return vm.log.With(
		sl.Op(opn),
		slog.String("division", "ui"),
	)
}

// Mount loads the task list the first time the board is shown.
func (vm *ViewModel) Mount(ctx context.Context) error {
	vm.mu.Lock()
	loaded := vm.loaded
	vm.mu.Unlock()

	if loaded {
		return nil
	}
	return vm.Refresh(ctx)
}

// Refresh reloads the whole task list from the server.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	err := vm.store.Load(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.loaded = true
	if err != nil {
		vm.notice = noticeFor("load tasks", err)
		return err
	}
	vm.notice = nil
	return nil
}

// ToggleDropdown opens the action menu of a row, closing any other one.
// Toggling the open row closes it. Ignored while a dialog is open.
func (vm *ViewModel) ToggleDropdown(id string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode.Dialog() {
		return
	}

	if vm.mode == ModeDropdownOpen && vm.dropdown == id {
		vm.mode = ModeIdle
		vm.dropdown = ""
		return
	}

	vm.mode = ModeDropdownOpen
	vm.dropdown = id
}

// OpenNew opens the New-Task dialog with a fresh draft.
func (vm *ViewModel) OpenNew() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode.Dialog() {
		return ErrDialogOpen
	}

	vm.enter(ModeCreating, models.Task{}, models.NewDraft())
	return nil
}

// OpenEdit opens the Edit-Task dialog with a draft copied from the task.
func (vm *ViewModel) OpenEdit(id string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode.Dialog() {
		return ErrDialogOpen
	}

	task, ok := vm.store.Get(id)
	if !ok {
		vm.closeDropdown()
		return fmt.Errorf("edit '%s': %w", id, ErrTaskNotDisplayed)
	}

	vm.enter(ModeEditing, task, models.DraftFromTask(task))
	return nil
}

// OpenDelete opens the Delete-Confirm dialog for the task.
func (vm *ViewModel) OpenDelete(id string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode.Dialog() {
		return ErrDialogOpen
	}

	task, ok := vm.store.Get(id)
	if !ok {
		vm.closeDropdown()
		return fmt.Errorf("delete '%s': %w", id, ErrTaskNotDisplayed)
	}

	vm.enter(ModeConfirmingDelete, task, models.NewDraft())
	return nil
}

// SetField updates one field of the draft of the open New or Edit dialog.
func (vm *ViewModel) SetField(field Field, value string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode != ModeCreating && vm.mode != ModeEditing {
		return ErrNoActiveDialog
	}

	switch field {
	case FieldAssignedTo:
		vm.draft.AssignedTo = value
	case FieldStatus:
		vm.draft.Status = models.Status(value)
	case FieldDueDate:
		vm.draft.DueDate = value
	case FieldPriority:
		vm.draft.Priority = models.Priority(value)
	case FieldDescription:
		vm.draft.Description = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return nil
}

// SubmitNew creates a task from the draft. On success the dialog closes and
// the draft is reset; on failure the dialog stays open with a notice.
func (vm *ViewModel) SubmitNew(ctx context.Context) error {
	log := vm.initLogger("UI.SubmitNew")

	draft, err := vm.prepareSubmit(ModeCreating, "")
	if err != nil {
		return err
	}

	task, err := vm.store.Create(ctx, draft)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.notice = noticeFor("create the task", err)
		return err
	}

	log.DebugContext(ctx, "task created", "id", task.ID)
	vm.notice = nil
	if vm.mode == ModeCreating {
		vm.reset()
	}
	return nil
}

// SubmitEdit updates the edit target with the draft. On success the dialog
// closes and the draft is reset; on failure the dialog stays open with a notice.
func (vm *ViewModel) SubmitEdit(ctx context.Context) error {
	log := vm.initLogger("UI.SubmitEdit")

	vm.mu.Lock()
	targetID := vm.target.ID
	vm.mu.Unlock()

	draft, err := vm.prepareSubmit(ModeEditing, targetID)
	if err != nil {
		return err
	}

	task, err := vm.store.Update(ctx, targetID, draft)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.notice = noticeFor("update the task", err)
		return err
	}

	log.DebugContext(ctx, "task updated", "id", task.ID)
	vm.notice = nil
	if vm.mode == ModeEditing && vm.target.ID == targetID {
		vm.reset()
	}
	return nil
}

// ConfirmDelete deletes the target of the Delete-Confirm dialog.
// On failure the dialog stays open with a notice.
func (vm *ViewModel) ConfirmDelete(ctx context.Context) error {
	vm.mu.Lock()
	if vm.mode != ModeConfirmingDelete {
		vm.mu.Unlock()
		return ErrNoActiveDialog
	}
	targetID := vm.target.ID
	vm.mu.Unlock()

	err := vm.store.Delete(ctx, targetID)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.notice = noticeFor("delete the task", err)
		return err
	}

	vm.notice = nil
	if vm.mode == ModeConfirmingDelete && vm.target.ID == targetID {
		vm.reset()
	}
	return nil
}

// Cancel closes whatever dialog or dropdown is open and resets the draft.
func (vm *ViewModel) Cancel() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.notice = nil
	vm.reset()
}

// TargetID returns the id of the task the open Edit or Delete dialog acts on.
func (vm *ViewModel) TargetID() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.target.ID
}

// Snapshot returns the current state for rendering.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	list := vm.store.Tasks()
	var notice *Notice
	if vm.notice != nil {
		copied := *vm.notice
		notice = &copied
	}

	return Snapshot{
		Tasks:        list,
		Mode:         vm.mode,
		Draft:        vm.draft,
		Target:       vm.target,
		OpenDropdown: vm.dropdown,
		Notice:       notice,
		Records:      len(list),
	}
}

// prepareSubmit checks the dialog and the required fields and returns the
// draft to send. No lock is held while the request is in flight, so a second
// submit of the same dialog is sent as well.
func (vm *ViewModel) prepareSubmit(mode Mode, targetID string) (models.Draft, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.mode != mode || vm.target.ID != targetID {
		return models.Draft{}, ErrNoActiveDialog
	}

	if err := vm.draft.Validate(); err != nil {
		vm.notice = noticeFor("save the task", err)
		return models.Draft{}, err
	}

	return vm.draft, nil
}

// enter must be called with the mutex held.
func (vm *ViewModel) enter(mode Mode, target models.Task, draft models.Draft) {
	vm.mode = mode
	vm.target = target
	vm.draft = draft
	vm.dropdown = ""
	vm.notice = nil
}

// reset must be called with the mutex held.
func (vm *ViewModel) reset() {
	vm.enter(ModeIdle, models.Task{}, models.NewDraft())
}

// closeDropdown must be called with the mutex held.
func (vm *ViewModel) closeDropdown() {
	if vm.mode == ModeDropdownOpen {
		vm.mode = ModeIdle
		vm.dropdown = ""
	}
}
