package ingest

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Failure kinds. A call-level failure matches exactly one of them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrEmptyPayload      = errors.New("empty payload")
	ErrInvalidHeader     = errors.New("invalid header")
	ErrAllRowsFailed     = errors.New("all rows failed")
	ErrUnexpected        = errors.New("unexpected failure")
)

// Failure is a call-level import failure carrying a user-facing message.
type Failure struct {
	Kind    error
	Message string
	// Missing lists required header labels without a matching column (ErrInvalidHeader).
	Missing []string
	// RowErrors holds the "Row N: message" list accumulated before failing (ErrAllRowsFailed).
	RowErrors []string
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Is(target error) bool {
	return target == f.Kind
}

func newFailure(kind error, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// unexpected wraps an I/O or storage error so that it matches ErrUnexpected.
func unexpected(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrUnexpected)
}

// RowValidationError rejects a single row. It never escapes the orchestrator.
type RowValidationError struct {
	Row     int
	Message string
}

func (e *RowValidationError) Error() string {
	return e.Message
}

func rowError(row int, format string, args ...interface{}) *RowValidationError {
	return &RowValidationError{Row: row, Message: fmt.Sprintf(format, args...)}
}

// FormatRowError renders a row error the way it is reported to callers.
func FormatRowError(row int, err error) string {
	msg := err.Error()
	var rve *RowValidationError
	if errors.As(err, &rve) {
		msg = rve.Message
	}
	return fmt.Sprintf("Row %d: %s", row, strings.TrimSpace(msg))
}

// AsFailure extracts the call-level failure from err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
