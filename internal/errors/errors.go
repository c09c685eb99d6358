package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTransport   = errors.New("transport")
	ErrParse       = errors.New("parse")
	ErrPersistence = errors.New("persistence")
	ErrNotify      = errors.New("notify")
)

func NewTransport(format string, a ...interface{}) error {
	return wrap(ErrTransport, format, a...)
}

func NewParse(format string, a ...interface{}) error {
	return wrap(ErrParse, format, a...)
}

func NewPersistence(format string, a ...interface{}) error {
	return wrap(ErrPersistence, format, a...)
}

func NewNotify(format string, a ...interface{}) error {
	return wrap(ErrNotify, format, a...)
}

func wrap(kind error, format string, a ...interface{}) error {
	return fmt.Errorf("%w: %w", kind, fmt.Errorf(format, a...))
}

func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func IsNotify(err error) bool {
	return errors.Is(err, ErrNotify)
}

// Kind returns a short label for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsTransport(err):
		return "transport"
	case IsParse(err):
		return "parse"
	case IsPersistence(err):
		return "persistence"
	case IsNotify(err):
		return "notify"
	default:
		return "internal"
	}
}
