package handler

import (
	"errors"
	"net/http"

	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/response"
)

// writeValidationError writes a 400 when err is a ValidationError and
// reports whether it did.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(w, ve.Fields)
		return true
	}
	return false
}
