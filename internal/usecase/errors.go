package usecase

import (
	"errors"
	"sort"
	"strings"

	"hospital-queue/pkg/validator"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError rejects an operation before any state changes. Fields maps
// the offending input to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validate(v *validator.CustomValidator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		return &ValidationError{Fields: v.FormatValidationErrors(err)}
	}
	return nil
}
