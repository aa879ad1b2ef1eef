package form

import "errors"

// Workflow errors.
var (
	ErrSubmitInProgress      = errors.New("a CronTab submission is already in progress")
	ErrYAMLEditorUnavailable = errors.New("YAML editor is not enabled for this form")
	ErrMissingCreator        = errors.New("form requires a creator")
	ErrMissingNavigator      = errors.New("form requires a navigator")
)

// Validation causes wrapped by ValidationError.
var (
	ErrRequiredFields     = errors.New("name, cronSpec and image are required")
	ErrNegativeReplicas   = errors.New("replicas must not be negative")
	ErrInvalidSchedule    = errors.New("invalid cronSpec schedule")
	ErrMalformedYAML      = errors.New("malformed YAML")
	ErrMissingName        = errors.New("metadata.name or metadata.generateName is required")
	ErrMissingSpec        = errors.New("spec is required")
	ErrUnexpectedResource = errors.New("YAML does not describe a CronTab")
)

// ValidationError is a client-side failure detected before any request is
// sent. Message is the localized text shown to the user.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// CreateError is a rejected create request. Err is the error returned by
// the cluster client.
type CreateError struct {
	Message string
	Err     error
}

func (e *CreateError) Error() string { return e.Message }

func (e *CreateError) Unwrap() error { return e.Err }
