package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGameNotFound covers both a missing record and a record of another template type.
	ErrGameNotFound = errors.New("game not found")
	// ErrAccessDenied is returned when the caller may not perform the operation.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotPublished is returned for public reads of an unpublished game.
	ErrNotPublished = fmt.Errorf("%w: game is not published", ErrAccessDenied)
	// ErrUnauthenticated is returned when an operation needs a caller identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrTemplateMissing means the gameshow template seed record does not exist.
	ErrTemplateMissing = errors.New("gameshow template not found, run the migrations")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when a definition or submission is malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
