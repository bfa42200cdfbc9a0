package auth

import (
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// ErrorResponse is the error body every /authorize endpoint returns
type ErrorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewErrorResponse maps a domain error to its fixed status code and body.
// Domain errors bubble to this boundary unmodified; nothing is swallowed.
func NewErrorResponse(err error) ErrorResponse {
	status := HTTPStatusFromError(err)

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ErrorResponse{
			Status:  status,
			Message: richErr.Message,
		}
	}

	return ErrorResponse{
		Status:  status,
		Message: err.Error(),
	}
}

// NewValidationErrorResponse aggregates every violation into the errors
// list instead of failing on the first one
func NewValidationErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Errors:  FormatValidationErrorToList(err),
	}
}

// HTTPStatusFromError maps the closed error taxonomy to status codes
func HTTPStatusFromError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FormatValidationErrorToList flattens ozzo validation errors into a sorted
// field-prefixed list
func FormatValidationErrorToList(err error) []string {
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(errs))
	for field, fieldErr := range errs {
		out = append(out, fmt.Sprintf("%s: %s", field, fieldErr.Error()))
	}

	sort.Strings(out)
	return out
}
