package service

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// nextID returns one past the largest id in items, or 1 for an empty list.
func nextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, item := range items {
		if n := id(item); n > highest {
			highest = n
		}
	}
	return highest + 1
}

func requireField(name, value string) error {
	if err := validation.Validate(strings.TrimSpace(value), validation.Required); err != nil {
		return apperrors.NewValidationError(name+" is required", map[string]any{"field": name})
	}
	return nil
}

// validated turns the result of a Validate method into a VALIDATION_FAILED
// error whose details hold one message per field.
func validated(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(fields))
	for name, fieldErr := range fields {
		details[name] = fieldErr.Error()
	}
	return apperrors.NewValidationError("invalid input", details)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
