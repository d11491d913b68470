package ui

import (
	"github.com/UnknownOlympus/hestia/internal/client"
)

// Notice is a user-visible message about the last failed action.
type Notice struct {
	Kind    client.ErrorKind
	Message string
}

func noticeFor(action string, err error) *Notice {
	kind := client.KindOf(err)

	var message string
	switch kind {
	case client.KindNone:
		return nil
	case client.KindValidation:
		message = "Please select the user the task is assigned to."
	case client.KindNetwork:
		message = "Could not reach the task service while trying to " + action + ". Check your connection and try again."
	case client.KindNotFound:
		message = "The task no longer exists. Refresh the list to see the current tasks."
	case client.KindServer:
		message = "The task service failed to " + action + ". Please try again."
	default:
		message = "Unexpected error while trying to " + action + "."
	}

	return &Notice{Kind: kind, Message: message}
}
