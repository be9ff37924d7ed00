package errors

import (
	"strings"
	"time"
)

// DateLayout is the accepted layout for date bounds (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD date bound supplied through flag.
//
// An empty value is not an error: it returns the zero time, which callers
// treat as an unbounded range end. Any other value that does not match
// [DateLayout] exactly yields an [ErrCodeInvalidDate] error.
func ParseDate(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, Wrap(ErrCodeInvalidDate, err, "invalid --%s %q, expected YYYY-MM-DD", flag, value)
	}
	return t, nil
}
