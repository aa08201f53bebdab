package dataOperator

import "errors"

var (
	// ErrNotFound is returned when a task location does not exist
	ErrNotFound = errors.New("task location not found")

	// ErrStoreClosed is returned when using a closed store
	ErrStoreClosed = errors.New("data store is closed")

	// ErrUnauthorized is returned when the store rejects the caller's credentials
	ErrUnauthorized = errors.New("unauthorized against data store")

	// ErrTransient is returned for network or storage failures with no
	// observed state change
	ErrTransient = errors.New("transient data store failure")
)
