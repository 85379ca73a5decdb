package validator

import (
	"errors"
	"time"
)

// FormatChecker reports whether v satisfies a format. A nil error means valid.
type FormatChecker func(v any) error

var errInvalidDate = errors.New("invalid date")

// DateTime accepts a time.Time, or a string holding an RFC 3339 timestamp.
// Any other value is an invalid date.
func DateTime(v any) error {
	switch x := v.(type) {
	case time.Time:
		return nil
	case *time.Time:
		if x == nil {
			return errInvalidDate
		}
		return nil
	case string:
		if _, err := time.Parse(time.RFC3339Nano, x); err != nil {
			return errInvalidDate
		}
		return nil
	default:
		return errInvalidDate
	}
}

// engineFormat adapts a FormatChecker to the engine's boolean format hook.
func engineFormat(fn FormatChecker) func(any) bool {
	return func(v any) bool { return fn(v) == nil }
}
