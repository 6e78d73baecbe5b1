package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the account identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Recipient records the report recipient under the key "recipient".
func Recipient(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("recipient", email)
}

// Frequency records a schedule frequency under the key "frequency".
func Frequency(f string) slog.Attr {
	return slog.String("frequency", f)
}

// DueAt records a due instant under the key "due_at".
// Accepts time.Time or *time.Time; a nil pointer yields an empty Attr.
func DueAt(t any) slog.Attr {
	switch v := t.(type) {
	case time.Time:
		return slog.Time("due_at", v)
	case *time.Time:
		if v == nil {
			return slog.Attr{}
		}
		return slog.Time("due_at", *v)
	default:
		return slog.Attr{}
	}
}

// PassID records the delivery pass identifier under the key "pass_id".
// If id is nil, it returns an empty Attr.
func PassID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("pass_id", id)
}

// Count records a counter under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
