package errors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the HTTP status code returned at the API
// boundary. Remote auth failures surface as 401 so an operator can tell an
// expired page token apart from a provider outage.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case ErrCodeInvalidInput, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeMissingConfig, ErrCodeInvalidConfig:
		return http.StatusInternalServerError
	case ErrCodeRemoteAuth:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
