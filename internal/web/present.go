package web

import (
	"github.com/UnknownOlympus/hestia/internal/models"
)

// StatusColor returns the text color class of a status cell.
func StatusColor(status models.Status) string {
	switch status {
	case models.StatusCompleted:
		return "text-green"
	case models.StatusInProgress:
		return "text-blue"
	case models.StatusNotStarted:
		return "text-gray"
	default:
		return "text-gray"
	}
}

// PriorityColor returns the text color class of a priority cell.
func PriorityColor(priority models.Priority) string {
	switch priority {
	case models.PriorityHigh:
		return "text-red"
	case models.PriorityNormal:
		return "text-yellow"
	case models.PriorityLow:
		return "text-green"
	default:
		return "text-gray"
	}
}

// pageSizes are shown in the pagination footer, which does not page.
var pageSizes = []int{20, 50, 100}
