package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Event errors
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidTimeRange   = errors.New("event start must be before end")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrPreconditionFailed = errors.New("validator does not match current state")
	ErrMissingValidator   = errors.New("conditional request validator is required")

	// Task errors
	ErrTaskNotFound          = errors.New("task not found")
	ErrQueueFull             = errors.New("task queue capacity exceeded")
	ErrInvalidTaskTransition = errors.New("invalid task status transition")

	// Permission errors
	ErrNotCreator      = errors.New("caller is not the resource creator")
	ErrMissingIdentity = errors.New("caller identity is missing")

	// Validation errors
	ErrInvalidFilter = errors.New("malformed filter parameter")
)
