package wizard

import "errors"

var (
	// ErrCancelled is returned when the user picks Cancel.
	ErrCancelled = errors.New("crontab creation cancelled")

	errRequired          = errors.New("required field is empty")
	errReplicasNotNumber = errors.New("replicas must be a whole number")
	errReplicasNegative  = errors.New("replicas must be zero or greater")
)

// fieldError is an inline validation message in the session language.
type fieldError struct {
	msg string
	err error
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return e.err }
