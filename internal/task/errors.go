package task

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is wrapped by the ValidationError returned when a task's
	// text is blank after trimming.
	ErrEmptyText = errors.New("task text must not be empty")
	// ErrDuplicateID is wrapped when a replacement list repeats an id.
	ErrDuplicateID = errors.New("duplicate task id")
)

// ValidationError reports input the store refused. Nothing was changed and
// nothing was written.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
