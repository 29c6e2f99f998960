package models

import (
	"time"
)

// PropagateOperation is the immutable description of one propagation run
type PropagateOperation struct {
	ID              string
	SearchPath      string
	ReferencePhoto  string // empty = auto-detect
	DryRun          bool
	Recursive       bool
	FieldGroup      string // e.g. "gps:all"
	ExcludePatterns []string
	CreatedAt       time.Time
}

// Validate checks if the operation is usable
func (op *PropagateOperation) Validate() error {
	if op.SearchPath == "" {
		return &ValidationError{Field: "SearchPath", Message: "search path is required"}
	}
	if op.FieldGroup == "" {
		return &ValidationError{Field: "FieldGroup", Message: "field group is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
