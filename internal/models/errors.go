package models

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidData is matched by every *InvalidDataError.
	ErrInvalidData = errors.New("invalid data")
)

// InvalidDataError carries user-facing validation messages.
type InvalidDataError struct {
	Details []string
}

// NewInvalidDataError builds an InvalidDataError from one or more messages.
func NewInvalidDataError(details ...string) *InvalidDataError {
	return &InvalidDataError{Details: details}
}

func (e *InvalidDataError) Error() string {
	if len(e.Details) == 0 {
		return ErrInvalidData.Error()
	}
	return ErrInvalidData.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
