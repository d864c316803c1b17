package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Character errors
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidQuantity   = fmt.Errorf("quantity must be between 1 and %d", MaxBatchQuantity)
)

// MaxBatchQuantity caps how many copies one batch request may create.
const MaxBatchQuantity = 100

// ValidationError maps a payload field to the reason it was rejected.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records the first reason reported for a field.
func (e *ValidationError) Add(field, reason string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = reason
}

// OrNil returns nil when nothing was recorded, so callers can return it as error.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
