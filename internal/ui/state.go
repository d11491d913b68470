package ui

// Mode is the single interaction state of the task board.
// Only one dialog or dropdown can be active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDropdownOpen
	ModeCreating
	ModeEditing
	ModeConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDropdownOpen:
		return "dropdown"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	case ModeConfirmingDelete:
		return "confirming_delete"
	default:
		return "unknown"
	}
}

// Dialog reports whether the mode is a modal dialog.
func (m Mode) Dialog() bool {
	return m == ModeCreating || m == ModeEditing || m == ModeConfirmingDelete
}

// Field names a draft form field.
type Field string

const (
	FieldAssignedTo  Field = "assignedTo"
	FieldStatus      Field = "status"
	FieldDueDate     Field = "dueDate"
	FieldPriority    Field = "priority"
	FieldDescription Field = "description"
)

// Fields lists every draft field in form order.
var Fields = []Field{FieldAssignedTo, FieldStatus, FieldDueDate, FieldPriority, FieldDescription}
