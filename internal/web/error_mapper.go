package web

import (
	"context"
	"errors"
	"net/http"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/validation"
)

// HTTPErrorInfo contains the HTTP status code, message and optional details for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
	Details []string
}

// ErrorMapping represents a single error to HTTP status/message mapping.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

// NewErrorMapper creates a mapper with no mappings; unmatched errors become 500.
// Validation errors are always 400. Handlers register their own not-found errors with WithMapping.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:       make([]ErrorMapping, 0),
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping adds an error mapping to the mapper.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

// Map converts an error to HTTP status and message.
// Storage failures keep the driver message so operators can see what broke.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	var problems *validation.Problems
	if errors.As(err, &problems) {
		return HTTPErrorInfo{Status: http.StatusBadRequest, Message: problems.Message, Details: problems.Details}
	}
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		return HTTPErrorInfo{Status: http.StatusBadRequest, Message: verr.Message}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			return HTTPErrorInfo{Status: mapping.Status, Message: mapping.Message}
		}
	}

	var dae *database.DataAccessError
	if errors.As(err, &dae) {
		return HTTPErrorInfo{Status: http.StatusInternalServerError, Message: dae.Error()}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}
