package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/pkg/errors"
)

var (
	ErrValidationFailure = errors.New("validation failure")
	ErrPersistFailure    = errors.New("persist failure")
)

const generalErrorKey = "general"

// MutationResult is what create and update actions hand back to the view.
// Errors is keyed by field name, or by "general" for store failures.
type MutationResult struct {
	Success bool
	ID      int
	Errors  map[string]string
}

func succeeded(id int) MutationResult {
	return MutationResult{Success: true, ID: id}
}

func failedWith(key, message string) MutationResult {
	return MutationResult{Errors: map[string]string{key: message}}
}

func jobFailure(err error) MutationResult {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return MutationResult{Errors: jobFieldErrors(validationErrors)}
	case errors.Is(err, repositories.ErrConstraintViolation):
		return failedWith(generalErrorKey, "A job with this title already exists.")
	case errors.Is(err, repositories.ErrNotFound):
		return failedWith(generalErrorKey, "Job not found.")
	default:
		return failedWith(generalErrorKey, "Failed to save job.")
	}
}

func jobFieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		key := strings.ToLower(fieldErr.Field())
		message := fieldErr.Field() + " is invalid"

		switch {
		case fieldErr.Field() == "Slug":
			key, message = "title", "Title must contain letters or digits"
		case fieldErr.Tag() == "required":
			message = fieldErr.Field() + " is required"
		case fieldErr.Tag() == "max":
			message = fieldErr.Field() + " is too long"
		}

		if _, exists := fields[key]; !exists {
			fields[key] = message
		}
	}
	return fields
}
