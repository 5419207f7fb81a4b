package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for empty values, slog drops those.

func Error(err error) slog.Attr {
	if nil == err {
		return slog.Attr{}
	}

	return slog.Any("error", err)
}

func RequestID(id string) slog.Attr {
	if "" == id {
		return slog.Attr{}
	}

	return slog.String("request_id", id)
}

func Route(name string) slog.Attr {
	if "" == name {
		return slog.Attr{}
	}

	return slog.String("route", name)
}

func Command(name string) slog.Attr {
	if "" == name {
		return slog.Attr{}
	}

	return slog.String("command", name)
}

func Phase(phase string) slog.Attr {
	return slog.String("phase", phase)
}

func Status(status int) slog.Attr {
	return slog.Int("status", status)
}

func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Trace adds a stack trace, empty when there is none.
func Trace(trace []byte) slog.Attr {
	if 0 == len(trace) {
		return slog.Attr{}
	}

	return slog.String("trace", string(trace))
}
