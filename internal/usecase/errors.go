package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSchema       = errors.New("schema validation failed")
	ErrBusinessRule = errors.New("business rule violated")
	ErrNotFound     = errors.New("not found")
	ErrState        = errors.New("invalid state")
)

// SchemaError carries structural field violations keyed by field path.
type SchemaError struct {
	Fields map[string]string
}

func (e *SchemaError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// BusinessRuleError is a fatal business-rule violation (hard limits).
type BusinessRuleError struct {
	Issues []Issue
}

func (e *BusinessRuleError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Message)
	}
	return fmt.Sprintf("%s: %s", ErrBusinessRule.Error(), strings.Join(msgs, "; "))
}

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRule }

func newBusinessRuleError(code, format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Issues: []Issue{{Code: code, Message: fmt.Sprintf(format, args...)}}}
}

// NotFoundError references an unknown template, contract, milestone or invoice.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StateError rejects an operation the aggregate's current state does not allow.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return ErrState.Error() + ": " + e.Message }

func (e *StateError) Unwrap() error { return ErrState }

func newStateError(format string, args ...any) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

// errorFromResult turns a failed validation into the matching typed error.
// Schema violations win over business-rule errors.
func errorFromResult(r ValidationResult) error {
	if r.Valid() {
		return nil
	}
	if len(r.FieldErrors) > 0 {
		return &SchemaError{Fields: r.FieldErrors}
	}
	return &BusinessRuleError{Issues: r.Errors}
}
