package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error. A nil error yields an empty
// attribute, which slog drops from the record.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op creates the operation attribute every division logger carries.
func Op(opn string) slog.Attr {
	return slog.String("op", opn)
}
