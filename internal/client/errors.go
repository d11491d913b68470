package client

import (
	"errors"

	"github.com/UnknownOlympus/hestia/internal/models"
)

var (
	// ErrNetwork reports a transport failure or an unreadable response.
	ErrNetwork = errors.New("network error")
	// ErrServer reports a non-2xx response other than not found.
	ErrServer = errors.New("server error")
	// ErrNotFound reports that the task id is unknown to the server.
	ErrNotFound = errors.New("task not found")
)

// ErrorKind classifies a failed task operation for presentation.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNetwork
	KindServer
	KindNotFound
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// KindOf maps an error returned by the task client or draft validation to its kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, models.ErrAssigneeRequired):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrServer):
		return KindServer
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindUnknown
	}
}
