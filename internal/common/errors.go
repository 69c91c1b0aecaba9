// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Stage errors. Reference-catalog noise is tolerated row by row, but any of
// these aborts the whole run: there is no partial-success mode.
var (
	// ErrSourceRead indicates the product catalog could not be read or parsed.
	ErrSourceRead = errors.New("source catalog unreadable")
	// ErrCatalogFormat indicates the reference workbook is missing or malformed.
	ErrCatalogFormat = errors.New("reference catalog malformed")
	// ErrSink indicates a schema, insert or commit failure in the database sink.
	ErrSink = errors.New("database sink failed")
)

// StageError reports which pipeline stage failed, carrying the original cause.
type StageError struct {
	Err   error
	Stage string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Abort wraps err with the name of the failing stage.
func Abort(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
