package usecases

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mediascope/internal/models"
)

// ErrNotFound matches OperationErrors raised for missing items or logs.
var ErrNotFound = errors.New("not found")

// ValidationError is raised before any I/O. Fields maps each offending
// field to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OperationError carries a port failure message verbatim.
type OperationError struct {
	Message  string
	NotFound bool
	Err      error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

func (e *OperationError) Is(target error) bool {
	return target == ErrNotFound && e.NotFound
}

// unwrap is the one place a ResponseError value becomes a returned error.
func unwrap[T any](res models.Result[T]) (T, error) {
	if res.Failed() {
		var zero T
		return zero, &OperationError{Message: res.Err.Message, NotFound: res.Err.NotFound}
	}
	return res.Data, nil
}

func operationFailed(message string, err error) error {
	return &OperationError{Message: message, Err: fmt.Errorf("%s: %w", strings.ToLower(message), err)}
}
