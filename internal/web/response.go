package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/validation"
)

var (
	errInvalidJSON = validation.ValidationError{Field: "body", Message: "Invalid JSON format"}
	errContentType = validation.ValidationError{Field: "content_type", Message: "Content-Type must be application/json"}
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	Timestamp string   `json:"timestamp"`
	RequestID string   `json:"request_id,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, details []string, requestID string) {
	_ = WriteJSON(w, status, ErrorResponse{
		Error:     message,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	})
}

// DecodeJSON reads a JSON body into dst. An absent body leaves dst untouched.
// Failures are validation errors so they surface as 400. A value of the wrong type names
// the offending field path (for example "items" or "items.id") in Field.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errContentType
		}
	}
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return validation.ValidationError{Field: typeErr.Field, Message: errInvalidJSON.Message}
		}
		return errInvalidJSON
	}
	return nil
}

// PathID parses a numeric path parameter. Non-numeric ids are reported as absent.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// Responder writes mapped error replies and logs them at a level matching the status.
type Responder struct {
	Logger *logger.Logger
	Mapper *ErrorMapper
}

// NewResponder creates a responder with the given mapper, or a default one when nil.
func NewResponder(log *logger.Logger, mapper *ErrorMapper) *Responder {
	if mapper == nil {
		mapper = NewErrorMapper()
	}
	return &Responder{Logger: log, Mapper: mapper}
}

// Error maps err and writes it. Server-side failures are logged with the error attached.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, action string, err error) {
	requestID := RequestID(r.Context())
	info := rs.Mapper.Map(err)

	fields := map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": info.Status,
	}
	if info.Status >= http.StatusInternalServerError {
		rs.Logger.Error(action, "Request failed", requestID, err, fields)
	} else {
		rs.Logger.Debug(action, info.Message, requestID, fields)
	}
	WriteError(w, info.Status, info.Message, info.Details, requestID)
}

// JSON writes v and logs encoding failures.
func (rs *Responder) JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := WriteJSON(w, status, v); err != nil {
		rs.Logger.Error("response_encoding_failed", "Failed to encode response", RequestID(r.Context()), err, nil)
	}
}
