package config

import "errors"

var (
	// ErrUnknownHelmBackend is returned for a helm backend other than cli or sdk.
	ErrUnknownHelmBackend = errors.New("unknown helm backend")

	// ErrEmptyValue is returned when a required setting is empty.
	ErrEmptyValue = errors.New("required setting is empty")
)
