package pkg

import (
	"log/slog"
	"strconv"
	"strings"
)

// Error is a list of independent errors reported together, such as the
// failures of several command arguments.
type Error []error

// MakeError collects errs into an Error. Nil errors are dropped and nested
// Error values are flattened.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err == nil {
			continue
		}

		if list, ok := err.(Error); ok {
			e = append(e, MakeError(list...)...)
		} else {
			e = append(e, err)
		}
	}

	return e
}

// Err returns nil for an empty list, the only element of a single-element
// list, and the list itself otherwise.
func (e Error) Err() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e
	}
}

// Error joins the messages of all errors with "; ".
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends errs to the receiver.
func (e Error) Wrap(errs ...error) Error {
	return append(e, MakeError(errs...)...)
}

// Unwrap returns the collected errors.
func (e Error) Unwrap() []error {
	return e
}

// LogValue groups the errors by position.
func (e Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(e))
	for i, err := range e {
		attrs[i] = slog.Any(strconv.Itoa(i), err)
	}

	return slog.GroupValue(attrs...)
}
